package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/dmitrymomot/tournament-auth/pkg/logger"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusUp        = "up"
	StatusDown      = "down"
)

// CheckFunc checks one dependency; a nil error means the dependency is up.
type CheckFunc func(context.Context) error

type namedCheck struct {
	name string
	fn   CheckFunc
}

// ServiceStatus is the outcome of one dependency check.
type ServiceStatus struct {
	Status       string `json:"status"`
	ResponseTime string `json:"responseTime"`
	Error        string `json:"error,omitempty"`
}

// MemoryStats is a subset of runtime.MemStats, in bytes.
type MemoryStats struct {
	HeapAlloc  uint64 `json:"heapAlloc"`
	HeapSys    uint64 `json:"heapSys"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// SystemInfo describes the running process.
type SystemInfo struct {
	Uptime     float64     `json:"uptime"`
	Memory     MemoryStats `json:"memory"`
	Goroutines int         `json:"goroutines"`
	Version    string      `json:"version"`
	Platform   string      `json:"platform"`
}

// HealthReport is the body served by HealthHandler.
type HealthReport struct {
	Status      string                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Environment string                   `json:"environment"`
	Services    map[string]ServiceStatus `json:"services"`
	System      SystemInfo               `json:"system"`
}

// HealthOption configures HealthHandler.
type HealthOption func(*healthConfig)

type healthConfig struct {
	checks      []namedCheck
	environment string
	startedAt   time.Time
	log         *slog.Logger
	now         func() time.Time
}

// WithCheck registers a named dependency check. Checks run in registration order.
func WithCheck(name string, fn CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks = append(c.checks, namedCheck{name: name, fn: fn})
		}
	}
}

// WithEnvironment sets the environment name reported in the body.
func WithEnvironment(env string) HealthOption {
	return func(c *healthConfig) { c.environment = env }
}

// WithStartTime sets the process start used for uptime. Defaults to handler creation.
func WithStartTime(t time.Time) HealthOption {
	return func(c *healthConfig) { c.startedAt = t }
}

// WithHealthLogger logs failing checks. Logs are discarded by default.
func WithHealthLogger(l *slog.Logger) HealthOption {
	return func(c *healthConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// HealthHandler reports dependency and process health.
//
// Every registered check runs sequentially on each request and its response
// time is recorded. The handler answers 200 with status "healthy" when all
// checks pass and 503 with "unhealthy" otherwise. Process metrics are always
// included, whatever the dependency outcome.
func HealthHandler(opts ...HealthOption) http.HandlerFunc {
	cfg := &healthConfig{
		log: logger.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.startedAt.IsZero() {
		cfg.startedAt = cfg.now()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report := cfg.report(r.Context())

		status := http.StatusOK
		if report.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}

func (c *healthConfig) report(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:      StatusHealthy,
		Timestamp:   c.now().UTC(),
		Environment: c.environment,
		Services:    make(map[string]ServiceStatus, len(c.checks)),
		System:      c.system(),
	}

	for _, check := range c.checks {
		start := c.now()
		err := check.fn(ctx)
		elapsed := c.now().Sub(start)

		svc := ServiceStatus{
			Status:       StatusUp,
			ResponseTime: elapsed.Round(time.Millisecond).String(),
		}
		if err != nil {
			svc.Status = StatusDown
			svc.Error = err.Error()
			report.Status = StatusUnhealthy
			c.log.ErrorContext(ctx, "health check failed",
				logger.Component("health"),
				slog.String("service", check.name),
				logger.Error(err),
			)
		}
		report.Services[check.name] = svc
	}

	return report
}

func (c *healthConfig) system() SystemInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return SystemInfo{
		Uptime: c.now().Sub(c.startedAt).Seconds(),
		Memory: MemoryStats{
			HeapAlloc:  ms.HeapAlloc,
			HeapSys:    ms.HeapSys,
			TotalAlloc: ms.TotalAlloc,
			Sys:        ms.Sys,
			NumGC:      ms.NumGC,
		},
		Goroutines: runtime.NumGoroutine(),
		Version:    runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}
