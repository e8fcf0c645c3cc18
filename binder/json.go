// Package binder decodes HTTP request bodies into handler request values.
package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxBodySize caps JSON bodies at 10 KB.
const DefaultMaxBodySize int64 = 10 << 10

// Option configures the JSON binder.
type Option func(*jsonConfig)

type jsonConfig struct {
	maxBodySize int64
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// JSON creates a JSON binder function.
//
// Numbers are decoded as json.Number so integer checks downstream see the
// literal the client sent. An empty body leaves v untouched, which for a
// map[string]any target means an empty payload.
//
// Example:
//
//	r.Post("/auth/login", handler.Wrap(login,
//		handler.WithBinder[handler.Context, map[string]any](binder.JSON()),
//	))
func JSON(opts ...Option) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if r.Body == nil {
			return nil
		}

		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, cfg.maxBodySize))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxErr.Limit)
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}

		mediaType := contentType
		if idx := strings.Index(contentType, ";"); idx != -1 {
			mediaType = strings.TrimSpace(contentType[:idx])
		}
		if !strings.EqualFold(mediaType, "application/json") {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		decoder.UseNumber()
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); err != io.EOF {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
		}

		return nil
	}
}
