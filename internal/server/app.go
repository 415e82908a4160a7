// Package server wires the store, the inference client and the image
// catalog into the HTTP API, runs the gRPC health endpoint next to it and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/config"
	"github.com/dmitrijs2005/agentchat/internal/images"
	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
	"github.com/dmitrijs2005/agentchat/internal/server/health"
	"github.com/dmitrijs2005/agentchat/internal/server/httpapi"
	"github.com/dmitrijs2005/agentchat/internal/services"

	gs "github.com/dmitrijs2005/agentchat/internal/server/grpc"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	inference *inference.Client
	http      *httpapi.HTTPServer
	grpc      *gs.GRPCServer
	watcher   *health.Watcher
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, logging.ParseLevel(c.LogLevel))

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	ic, err := inference.NewClient(c.OllamaHost, c.DefaultModel, nil, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("inference client: %w", err)
	}

	deps := httpapi.Deps{
		Accounts: services.NewAccountService(db, rm, c, logger),
		Chats:    services.NewChatService(db, rm, ic, logger),
		Memory:   services.NewMemoryService(db, rm),
		Models:   services.NewModelService(ic, c.DefaultModel, c.FallbackModels, logger),
	}

	if c.UseS3() {
		catalog, err := images.NewS3Catalog(ctx, images.S3Config{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 image catalog: %w", err)
		}
		deps.Catalog = catalog
	} else {
		catalog, err := images.NewLocalCatalog(c.ImagesDir)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		deps.Catalog = catalog
		deps.Files = catalog
	}

	grpcServer := gs.NewGRPCServer(c.GRPCAddr, logger)
	watcher := health.NewWatcher(grpcServer.Health(), c.HealthCheckInterval, map[string]health.Check{
		health.ServiceInference: ic.Ping,
		health.ServiceDatabase:  db.PingContext,
	}, logger)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		inference: ic,
		http:      httpapi.NewHTTPServer(c.HTTPAddr, deps, c.SecretKey, c.LoginRateLimit, c.LoginBurst, logger),
		grpc:      grpcServer,
		watcher:   watcher,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP and gRPC until ctx is done, a signal arrives or one of the
// servers fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.HTTPAddr, "grpc", app.config.GRPCAddr,
		"ollama", app.inference.Host(), "model", app.inference.DefaultModel())

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
		cancelFunc()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := app.grpc.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server", "error", err)
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server", "error", err)
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		app.watcher.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "close db", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")

	return firstErr
}
