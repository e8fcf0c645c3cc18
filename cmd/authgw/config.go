package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tournament-auth/pkg/config"
	"github.com/dmitrymomot/tournament-auth/pkg/environment"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/requestid"
)

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env    string `env:"APP_ENV" envDefault:"development"`
	Name   string `env:"APP_NAME" envDefault:"tournament-auth" validate:"required"`
	Locale string `env:"APP_LOCALE" envDefault:"fr" validate:"oneof=fr en"`
	// LogLevel overrides the environment default (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	// Transport selects how credentials travel between client and gateway.
	Transport    string        `env:"CREDENTIAL_TRANSPORT" envDefault:"cookie" validate:"oneof=cookie header"`
	CookieMaxAge time.Duration `env:"COOKIE_MAX_AGE" envDefault:"720h" validate:"gt=0"`
}

// RateLimitConfig sizes the per-IP limiters. Store "redis" shares windows
// between instances through REDIS_URL.
type RateLimitConfig struct {
	Store          string        `env:"RATE_LIMIT_STORE" envDefault:"memory" validate:"oneof=memory redis"`
	Prefix         string        `env:"RATE_LIMIT_PREFIX" envDefault:"ratelimit:"`
	GlobalLimit    int           `env:"RATE_LIMIT_GLOBAL" envDefault:"100" validate:"gt=0"`
	GlobalWindow   time.Duration `env:"RATE_LIMIT_GLOBAL_WINDOW" envDefault:"15m" validate:"gt=0"`
	RegisterLimit  int           `env:"RATE_LIMIT_REGISTER" envDefault:"3" validate:"gt=0"`
	RegisterWindow time.Duration `env:"RATE_LIMIT_REGISTER_WINDOW" envDefault:"1h" validate:"gt=0"`
	LoginLimit     int           `env:"RATE_LIMIT_LOGIN" envDefault:"5" validate:"gt=0"`
	LoginWindow    time.Duration `env:"RATE_LIMIT_LOGIN_WINDOW" envDefault:"1h" validate:"gt=0"`
}

// longestWindow is the retention the in-memory store needs.
func (c RateLimitConfig) longestWindow() time.Duration {
	return max(c.GlobalWindow, c.RegisterWindow, c.LoginWindow)
}

// loadApp reads AppConfig and builds the process logger.
func loadApp() (AppConfig, environment.Environment, *slog.Logger, error) {
	var app AppConfig
	if err := config.Load(&app); err != nil {
		return app, "", nil, fmt.Errorf("load app config: %w", err)
	}
	env := environment.Parse(app.Env)
	opts := []logger.Option{
		logger.WithEnvironment(env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if app.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
			return app, env, nil, fmt.Errorf("parse log level: %w", err)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)
	return app, env, log, nil
}
