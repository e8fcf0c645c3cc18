// Package logger builds the gateway's *slog.Logger.
//
// New takes functional options (WithEnvironment, WithLevel, WithFormat,
// WithOutput, WithAttr, WithContextExtractors) and wraps the chosen
// slog handler with LogHandlerDecorator, which appends attributes pulled from
// the request context, such as the request id, to every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "authgw"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "login succeeded",
//	    logger.Event("login"),
//	    logger.UserID(id),
//	    logger.Role(role),
//	)
//
// Attribute helpers return an empty slog.Attr for empty input, so they can be
// passed unconditionally.
package logger
