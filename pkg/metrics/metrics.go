// Package metrics exposes Prometheus instrumentation for the gateway: HTTP
// request counters, latency and in-flight gauges labelled by chi route
// pattern, plus counters for authorization and rate-limit rejections.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that no route matched, keeping cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics owns the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge
	authRejections  *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
}

// New registers the gateway collectors on reg. A nil reg gets a fresh
// registry that also carries the Go runtime and process collectors.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_pipeline_rejections_total",
			Help: "Requests rejected by the authorization pipeline, by reason.",
		}, []string{"reason"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter, by limiter scope.",
		}, []string{"scope"}),
	}

	for _, c := range []prometheus.Collector{
		m.requestsTotal, m.requestDuration, m.inflight, m.authRejections, m.rateLimited,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRejection counts one authorization pipeline rejection.
func (m *Metrics) RecordRejection(reason string) {
	m.authRejections.WithLabelValues(reason).Inc()
}

// RecordRateLimited counts one request refused by the limiter named scope.
func (m *Metrics) RecordRateLimited(scope string) {
	m.rateLimited.WithLabelValues(scope).Inc()
}

// Middleware instruments requests. The route label is the chi route pattern
// resolved after routing, so path parameters never become label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			m.inflight.Dec()

			route := routePattern(r)
			method := strings.ToUpper(r.Method)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(ww, r)
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
