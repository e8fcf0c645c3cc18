package main

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/clientip"
	"github.com/dmitrymomot/tournament-auth/pkg/environment"
	"github.com/dmitrymomot/tournament-auth/pkg/httpserver"
	"github.com/dmitrymomot/tournament-auth/pkg/i18n"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/metrics"
	"github.com/dmitrymomot/tournament-auth/pkg/ratelimit"
	"github.com/dmitrymomot/tournament-auth/pkg/requestid"
	"github.com/dmitrymomot/tournament-auth/pkg/tracing"
	"github.com/dmitrymomot/tournament-auth/svc/auth"
)

const (
	serviceName    = "Tournament Auth API"
	serviceVersion = "1.0.0"
)

// Limiter scopes; each one has a ratelimit.<scope> message.
const (
	scopeGlobal   = "global"
	scopeRegister = "register"
	scopeLogin    = "login"
)

type banner struct {
	Message string `json:"message"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type routerDeps struct {
	Env       environment.Environment
	Matcher   *i18n.Matcher
	Localizer handler.Localizer
	Errors    *handler.ErrorWriter
	// Metrics is optional; without it /metrics is not served.
	Metrics     *metrics.Metrics
	ClientIP    clientip.Resolver
	GlobalLimit auth.Middleware
	Health      http.Handler
	Auth        auth.RouterConfig
}

// newRouter assembles the gateway. Middleware order matters: request id and
// client ip come first so every later log line and limiter key can use them,
// and the global limiter runs last so rejected requests are still measured.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		requestid.Middleware,
		d.ClientIP.Middleware,
		environment.Middleware(d.Env),
		i18n.Middleware(d.Matcher),
		httpserver.SecureHeaders,
	)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(tracing.Middleware(nil), handler.Recoverer(d.Errors))
	if d.GlobalLimit != nil {
		r.Use(d.GlobalLimit)
	}

	r.NotFound(handler.NotFound(d.Errors))
	r.MethodNotAllowed(handler.MethodNotAllowed(d.Errors))

	r.Get("/", handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		msg := "Hello World!"
		if d.Localizer != nil {
			if s := d.Localizer(ctx, "hello", nil); s != "" {
				msg = s
			}
		}
		return handler.JSON(banner{Message: msg, Service: serviceName, Version: serviceVersion})
	}, handler.WithErrorHandler[handler.Context, struct{}](handler.NewErrorHandler(d.Errors))))

	if d.Health != nil {
		r.Method(http.MethodGet, "/health", d.Health)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Mount("/auth", auth.NewRouter(d.Auth))

	return r
}

type limits struct {
	global   auth.Middleware
	register auth.Middleware
	login    auth.Middleware
}

type limiterFactory struct {
	store   ratelimit.Store
	errors  *handler.ErrorWriter
	metrics *metrics.Metrics
	log     *slog.Logger
}

func (f limiterFactory) build(cfg RateLimitConfig) (limits, error) {
	global, err := f.limiter(scopeGlobal, cfg.GlobalLimit, cfg.GlobalWindow)
	if err != nil {
		return limits{}, err
	}
	register, err := f.limiter(scopeRegister, cfg.RegisterLimit, cfg.RegisterWindow)
	if err != nil {
		return limits{}, err
	}
	login, err := f.limiter(scopeLogin, cfg.LoginLimit, cfg.LoginWindow)
	if err != nil {
		return limits{}, err
	}
	return limits{global: global, register: register, login: login}, nil
}

func (f limiterFactory) limiter(scope string, limit int, window time.Duration) (auth.Middleware, error) {
	sw, err := ratelimit.NewSlidingWindow(f.store, limit, window)
	if err != nil {
		return nil, err
	}
	return ratelimit.Middleware(sw, ratelimit.ByIP(scope),
		ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
			if f.metrics != nil {
				f.metrics.RecordRateLimited(scope)
			}
			f.errors.Write(w, r, handler.NewHTTPError(http.StatusTooManyRequests, "ratelimit."+scope))
		}),
		ratelimit.WithOnError(func(r *http.Request, err error) {
			f.log.WarnContext(r.Context(), "rate limit store unavailable",
				logger.Component("ratelimit"),
				logger.Reason(scope),
				logger.Error(err),
			)
		}),
	), nil
}

// languageOrder puts def first so the matcher falls back to it.
func languageOrder(def string, available []string) []string {
	out := []string{def}
	for _, lang := range available {
		if !slices.Contains(out, lang) {
			out = append(out, lang)
		}
	}
	return out
}
