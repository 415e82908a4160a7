package httpapi

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/auth"
	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

type middleware func(http.Handler) http.Handler

// chain applies middlewares so the first one runs outermost.
func chain(mws ...middleware) middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

func userIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID reuses the caller's X-Request-Id or generates one, and echoes it
// on the response.
func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(common.RequestIDHeaderName))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *HTTPServer) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error(r.Context(), "panic recovered",
					"method", r.Method, "path", r.URL.Path, "panic", v, "stack", string(debug.Stack()))
				writeMessage(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticated requires a valid bearer token and stores its user ID in the
// request context.
func (s *HTTPServer) authenticated(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, found := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !found || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}

		h(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// loginLimiter keeps one token bucket per client address.
type loginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// maxTrackedClients bounds the limiter map; it is reset when full.
const maxTrackedClients = 10000

func newLoginLimiter(limit rate.Limit, burst int) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{limit: limit, burst: burst, limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) Allow(client string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[client]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[client] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
