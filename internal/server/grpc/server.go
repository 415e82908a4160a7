// Package grpc runs the gRPC endpoint of the server. It exposes the standard
// grpc.health.v1 service, fed by the health watcher.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/agentchat/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address string
	health  *health.Server
	logger  logging.Logger
}

// NewGRPCServer creates a server whose health statuses are driven through
// Health().
func NewGRPCServer(a string, l logging.Logger) *GRPCServer {
	return &GRPCServer{
		address: a,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

// Health returns the health service so a watcher can update statuses.
func (s *GRPCServer) Health() *health.Server {
	return s.health
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
