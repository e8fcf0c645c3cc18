// Package handler provides type-safe HTTP request handling for the gateway's JSON API.
//
// Handlers are generic functions that receive a bound request value and return a
// Response. Wrap adapts them to http.HandlerFunc, running the configured binders
// first and routing every failure through a single ErrorHandler:
//
//	register := func(ctx handler.Context, payload map[string]any) handler.Response {
//		result, err := svc.Register(ctx, payload)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(result, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/auth/register", handler.Wrap(register,
//		handler.WithBinder[handler.Context, map[string]any](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, map[string]any](handler.NewErrorHandler(errs)),
//	))
//
// # Envelope
//
// Every body written by this package shares one shape:
//
//	{"data": ..., "meta": {"timestamp": "...", "language": "fr", "status": "success"}}
//
// Error bodies carry {"error": message, "details": [...]} as data, the status marker
// "error" and an errorDescription in meta. Outside production, 5xx bodies also carry a
// "trace" with the underlying error chain or the recovered panic stack.
//
// # Errors
//
// ErrorWriter classifies errors into HTTP statuses:
//
//   - validator.ValidationErrors      -> 400 with per-field details
//   - binder errors                   -> 400, 413 or 415
//   - HTTPError                       -> its Code
//   - anything else, including panics -> 500
//
// Messages come from HTTPError.Message when set, otherwise from the configured
// Localizer using the error's translation key. Client errors are logged at warn
// level, server errors at error level.
//
// ErrorWriter is also usable from plain net/http middleware (rate limiting, the
// authorization pipeline, panic recovery, 404) so that all responses look alike.
package handler
