// Package health checks the backends the server depends on and publishes
// their state as gRPC health statuses.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/logging"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	ServiceInference = "inference"
	ServiceDatabase  = "database"
	// ServiceOverall is the empty service name clients query by default.
	ServiceOverall = ""
)

// Check returns nil when the backend is usable.
type Check func(ctx context.Context) error

// StatusSetter is implemented by *health.Server from grpc.
type StatusSetter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

// Watcher runs every check once per interval and reports the result per
// service plus an overall status that is SERVING only when all checks pass.
type Watcher struct {
	checks   map[string]Check
	setter   StatusSetter
	interval time.Duration
	logger   logging.Logger

	mu   sync.Mutex
	last map[string]healthpb.HealthCheckResponse_ServingStatus
}

// DefaultInterval replaces a non-positive interval.
const DefaultInterval = 10 * time.Second

func NewWatcher(setter StatusSetter, interval time.Duration, checks map[string]Check, logger logging.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		checks:   checks,
		setter:   setter,
		interval: interval,
		logger:   logger.With("module", "health"),
		last:     make(map[string]healthpb.HealthCheckResponse_ServingStatus),
	}
}

// Run checks immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.CheckOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs all checks and publishes the statuses. Each check gets at
// most one interval to answer.
func (w *Watcher) CheckOnce(ctx context.Context) {
	names := make([]string, 0, len(w.checks))
	for name := range w.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range names {
		pctx, cancel := context.WithTimeout(ctx, w.interval)
		err := w.checks[name](pctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		w.publish(ctx, name, status, err)
	}
	w.publish(ctx, ServiceOverall, overall, nil)
}

func (w *Watcher) publish(ctx context.Context, service string, status healthpb.HealthCheckResponse_ServingStatus, err error) {
	w.setter.SetServingStatus(service, status)

	w.mu.Lock()
	prev, seen := w.last[service]
	w.last[service] = status
	w.mu.Unlock()

	if seen && prev == status {
		return
	}
	if status == healthpb.HealthCheckResponse_SERVING {
		w.logger.Info(ctx, "backend healthy", "service", service)
	} else {
		w.logger.Warn(ctx, "backend unhealthy", "service", service, "error", err)
	}
}
