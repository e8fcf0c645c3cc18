package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tournament-auth/binder"
	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/locales"
	"github.com/dmitrymomot/tournament-auth/pkg/clientip"
	"github.com/dmitrymomot/tournament-auth/pkg/config"
	"github.com/dmitrymomot/tournament-auth/pkg/httpserver"
	"github.com/dmitrymomot/tournament-auth/pkg/i18n"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/metrics"
	"github.com/dmitrymomot/tournament-auth/pkg/pg"
	"github.com/dmitrymomot/tournament-auth/pkg/ratelimit"
	"github.com/dmitrymomot/tournament-auth/pkg/redis"
	"github.com/dmitrymomot/tournament-auth/pkg/tracing"
	"github.com/dmitrymomot/tournament-auth/svc/auth"
	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

const tracingFlushTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	startedAt := time.Now()

	app, env, log, err := loadApp()
	if err != nil {
		return err
	}

	var (
		httpCfg     httpserver.Config
		pgCfg       pg.Config
		identityCfg identity.Config
		limitCfg    RateLimitConfig
		tracingCfg  tracing.Config
	)
	if err := errors.Join(
		config.Load(&httpCfg),
		config.Load(&pgCfg),
		config.Load(&identityCfg),
		config.Load(&limitCfg),
		config.Load(&tracingCfg),
	); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mode, err := auth.ParseTransportMode(app.Transport)
	if err != nil {
		return err
	}

	shutdownTracing, err := tracing.Setup(ctx, tracingCfg, env.String())
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), tracingFlushTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to flush traces", logger.Error(err))
		}
	}()

	translator, err := i18n.NewTranslator(locales.FS,
		i18n.WithDefaultLanguage(app.Locale),
		i18n.WithLogger(log),
		i18n.WithMissingTranslationsLogging(!env.IsProduction()),
	)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	matcher, err := i18n.NewMatcher(languageOrder(app.Locale, translator.SupportedLanguages())...)
	if err != nil {
		return err
	}

	ew := handler.NewErrorWriter(log, handler.WithLocalizer(translator.Localize))

	m, err := metrics.New(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if migrate {
		if err := pg.Migrate(ctx, pool, pgCfg, profile.Migrations(), log); err != nil {
			return err
		}
	}

	idp := identity.New(identityCfg)
	service := auth.NewService(idp, profile.NewStore(pool), auth.WithLogger(log))
	transport := auth.NewTransport(mode,
		auth.WithSecureCookies(env.IsProduction()),
		auth.WithCookieMaxAge(app.CookieMaxAge),
	)
	pipeline := auth.NewPipeline(idp, service, transport, ew,
		auth.WithRejectionRecorder(m),
		auth.WithPipelineLogger(log),
	)

	checks := []httpserver.HealthOption{
		httpserver.WithCheck("identity", idp.Healthcheck),
		httpserver.WithCheck("database", pg.Healthcheck(pool)),
	}

	var store ratelimit.Store
	switch limitCfg.Store {
	case "redis":
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return fmt.Errorf("load redis config: %w", err)
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		store = ratelimit.NewRedisStore(client, limitCfg.Prefix)
		checks = append(checks, httpserver.WithCheck("redis", redis.Healthcheck(client)))
	default:
		mem := ratelimit.NewMemoryStore(ratelimit.WithMaxWindow(limitCfg.longestWindow()))
		defer mem.Close()
		store = mem
	}

	lim, err := limiterFactory{store: store, errors: ew, metrics: m, log: log}.build(limitCfg)
	if err != nil {
		return fmt.Errorf("build rate limiters: %w", err)
	}

	health := httpserver.HealthHandler(append(checks,
		httpserver.WithEnvironment(env.String()),
		httpserver.WithStartTime(startedAt),
		httpserver.WithHealthLogger(log),
	)...)

	router := newRouter(routerDeps{
		Env:         env,
		Matcher:     matcher,
		Localizer:   translator.Localize,
		Errors:      ew,
		Metrics:     m,
		ClientIP:    clientip.NewResolver(httpCfg.TrustProxy),
		GlobalLimit: lim.global,
		Health:      health,
		Auth: auth.RouterConfig{
			Service:       service,
			Schemas:       auth.NewSchemaEngine(),
			Transport:     transport,
			Pipeline:      pipeline,
			Errors:        ew,
			Binder:        binder.JSON(binder.WithMaxBodySize(httpCfg.MaxBodyBytes)),
			Localizer:     translator.Localize,
			RegisterLimit: lim.register,
			LoginLimit:    lim.login,
		},
	})

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger, addr string) {
			l.Info("server started",
				slog.String("addr", addr),
				slog.String("transport", string(mode)),
				slog.String("rate_limit_store", limitCfg.Store),
			)
		}),
	)
	return srv.Run(ctx, router)
}
