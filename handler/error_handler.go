package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tournament-auth/binder"
	"github.com/dmitrymomot/tournament-auth/pkg/environment"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/requestid"
	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

// Localizer resolves a translation key for the locale carried by ctx.
// It returns an empty string when no translation exists.
type Localizer func(ctx context.Context, key string, values map[string]any) string

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Key        string
	Message    string
	Values     map[string]any
	Details    validator.ValidationErrors
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ClassifyError maps err onto a status code, translation key and optional
// fixed message.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: ErrInternalServerError.Code,
		Key:        ErrInternalServerError.Key,
	}

	var httpErr HTTPError
	var panicErr *PanicError
	switch {
	case errors.As(err, &panicErr):
		// keep the 500 defaults
	case validator.IsValidationError(err):
		info.StatusCode = ErrValidationFailed.Code
		info.Key = ErrValidationFailed.Key
		info.Details = validator.ExtractValidationErrors(err)
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Key = httpErr.Key
		info.Message = httpErr.Message
		info.Values = httpErr.Values
	case errors.Is(err, binder.ErrPayloadTooLarge):
		info.StatusCode = ErrRequestEntityTooLarge.Code
		info.Key = ErrRequestEntityTooLarge.Key
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		info.StatusCode = ErrUnsupportedMediaType.Code
		info.Key = ErrUnsupportedMediaType.Key
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrMissingContentType):
		info.StatusCode = ErrBadRequest.Code
		info.Key = ErrBadRequest.Key
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// ErrorWriter renders errors as JSON envelopes and logs them.
type ErrorWriter struct {
	log      *slog.Logger
	localize Localizer
}

// ErrorWriterOption configures an ErrorWriter.
type ErrorWriterOption func(*ErrorWriter)

// WithLocalizer sets the translator used for error keys and validation details.
func WithLocalizer(l Localizer) ErrorWriterOption {
	return func(ew *ErrorWriter) {
		ew.localize = l
	}
}

// NewErrorWriter creates an ErrorWriter. A nil logger falls back to slog.Default.
func NewErrorWriter(log *slog.Logger, opts ...ErrorWriterOption) *ErrorWriter {
	if log == nil {
		log = slog.Default()
	}
	ew := &ErrorWriter{log: log}
	for _, opt := range opts {
		opt(ew)
	}
	return ew
}

func (ew *ErrorWriter) translate(ctx context.Context, key string, values map[string]any) string {
	if ew.localize == nil || key == "" {
		return ""
	}
	return ew.localize(ctx, key, values)
}

func (ew *ErrorWriter) message(ctx context.Context, info ErrorInfo) string {
	if info.Message != "" {
		return info.Message
	}
	if msg := ew.translate(ctx, info.Key, info.Values); msg != "" {
		return msg
	}
	return info.Key
}

func (ew *ErrorWriter) details(ctx context.Context, verrs validator.ValidationErrors) []validator.ValidationError {
	if len(verrs) == 0 {
		return nil
	}
	out := make([]validator.ValidationError, 0, len(verrs))
	for _, ve := range verrs {
		if msg := ew.translate(ctx, ve.TranslationKey, ve.TranslationValues); msg != "" {
			ve.Message = msg
		}
		out = append(out, ve)
	}
	return out
}

// Write classifies err, logs it and writes the error envelope.
func (ew *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	info := ClassifyError(err)
	msg := ew.message(ctx, info)

	ew.log.LogAttrs(ctx, info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(ctx)),
		logger.Error(err),
		slog.Int("status_code", info.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("error_handler"),
	)

	meta := newMeta(r, StatusError)
	meta.ErrorDescription = msg
	body := Envelope{
		Data: ErrorBody{Error: msg, Details: ew.details(ctx, info.Details)},
		Meta: meta,
	}
	if info.StatusCode >= http.StatusInternalServerError && !environment.IsProduction(ctx) {
		body.Trace = trace(err)
	}

	if werr := writeJSON(w, info.StatusCode, body); werr != nil {
		ew.log.ErrorContext(ctx, "failed to write error response",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(werr),
			logger.Event("write_error_response"),
		)
	}
}

func trace(err error) string {
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return panicErr.Error() + "\n" + string(panicErr.Stack)
	}
	return err.Error()
}

// NewErrorHandler adapts ew to the ErrorHandler signature used by Wrap.
func NewErrorHandler(ew *ErrorWriter) ErrorHandler[Context] {
	return func(ctx Context, err error) {
		ew.Write(ctx.ResponseWriter(), ctx.Request(), err)
	}
}
