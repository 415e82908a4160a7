// Package httpapi is the JSON HTTP interface of agentchat. It replaces the
// browser UI with endpoints for accounts, chat sessions, model and image
// catalogs, and per-user memory.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/images"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/services"
	"golang.org/x/time/rate"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Deps are the services the handlers call into.
type Deps struct {
	Accounts *services.AccountService
	Chats    *services.ChatService
	Memory   *services.MemoryService
	Models   *services.ModelService
	Catalog  images.Catalog
	// Files serves /images/{name}; nil when images live in S3.
	Files *images.LocalCatalog
}

type HTTPServer struct {
	address   string
	deps      Deps
	jwtSecret []byte
	limiter   *loginLimiter
	logger    logging.Logger
	handler   http.Handler
}

// NewHTTPServer builds the router. Logins are throttled per client address to
// loginRate attempts per second with the given burst.
func NewHTTPServer(address string, deps Deps, jwtSecret string, loginRate float64, loginBurst int, l logging.Logger) *HTTPServer {
	s := &HTTPServer{
		address:   address,
		deps:      deps,
		jwtSecret: []byte(jwtSecret),
		limiter:   newLoginLimiter(rate.Limit(loginRate), loginBurst),
		logger:    l.With("module", "http_server"),
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = chain(s.recoverPanics, s.requestID, s.accessLog)(mux)

	return s
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/sessions", s.authenticated(s.handleListSessions))
	mux.Handle("POST /api/sessions", s.authenticated(s.handleCreateSession))
	mux.Handle("GET /api/sessions/{id}", s.authenticated(s.handleGetSession))
	mux.Handle("PUT /api/sessions/{id}/system-prompt", s.authenticated(s.handleUpdateSystemPrompt))
	mux.Handle("PUT /api/sessions/{id}/character-image", s.authenticated(s.handleUpdateCharacterImage))
	mux.Handle("GET /api/sessions/{id}/messages", s.authenticated(s.handleListMessages))
	mux.Handle("POST /api/sessions/{id}/messages", s.authenticated(s.handleSend))

	mux.Handle("GET /api/models", s.authenticated(s.handleModels))
	mux.Handle("GET /api/images", s.authenticated(s.handleImages))
	mux.Handle("GET /api/memory/{key}", s.authenticated(s.handleGetMemory))
	mux.Handle("PUT /api/memory/{key}", s.authenticated(s.handleSetMemory))

	if s.deps.Files != nil {
		mux.HandleFunc("GET "+images.URLPrefix+"{name}", s.handleImageFile)
	}
}

// Handler returns the router wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then drains in-flight
// requests.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
