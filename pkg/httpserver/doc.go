// Package httpserver runs the gateway's HTTP server and serves its health report.
//
// Server wraps http.Server with:
//
//   - Graceful shutdown: Run blocks until the context is cancelled or an
//     interrupt/TERM signal is received, then calls http.Server.Shutdown with a
//     configurable deadline.
//   - Functional options: New or NewFromConfig together with WithAddr,
//     WithReadTimeout, WithLogger and friends.
//   - Hooks: WithStartHook runs once the listener is bound and receives the
//     resolved address; WithStopHook runs after shutdown.
//
// HealthHandler runs named dependency checks in sequence and reports each
// one's status and response time along with process metrics (uptime, memory,
// goroutines, Go version, platform). It answers 200 when every check passes
// and 503 otherwise.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthHandler(
//		httpserver.WithCheck("supabase", identityClient.Healthcheck),
//		httpserver.WithCheck("database", pg.Healthcheck(pool)),
//		httpserver.WithEnvironment(env.String()),
//	))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen and serve errors with ErrStart, while Shutdown wraps
// underlying shutdown errors with ErrShutdown. Use errors.Is to distinguish them.
package httpserver
