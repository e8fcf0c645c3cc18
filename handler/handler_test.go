package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/binder"
	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
)

type mockResponse struct {
	statusCode int
	body       string
	renderErr  error
}

func (m mockResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	w.WriteHeader(m.statusCode)
	_, _ = w.Write([]byte(m.body))
	return nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("basic handler without options", func(t *testing.T) {
		t.Parallel()
		h := handler.HandlerFunc[handler.Context, string](func(ctx handler.Context, req string) handler.Response {
			assert.NotNil(t, ctx)
			assert.Equal(t, "", req)
			return mockResponse{statusCode: http.StatusOK, body: "success"}
		})

		rec := httptest.NewRecorder()
		handler.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", rec.Body.String())
	})

	t.Run("binds JSON payload", func(t *testing.T) {
		t.Parallel()
		h := func(ctx handler.Context, req map[string]any) handler.Response {
			return handler.JSON(req)
		}

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"a@b.fr"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Wrap(h, handler.WithBinder[handler.Context, map[string]any](binder.JSON()))(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, map[string]any{"email": "a@b.fr"}, body["data"])
	})

	t.Run("binder error reaches error handler", func(t *testing.T) {
		t.Parallel()
		called := false
		h := func(ctx handler.Context, req map[string]any) handler.Response {
			called = true
			return handler.JSON(nil)
		}

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Wrap(h, handler.WithBinder[handler.Context, map[string]any](binder.JSON()))(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var got error
		h := func(ctx handler.Context, req string) handler.Response { return nil }

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithErrorHandler[handler.Context, string](func(ctx handler.Context, err error) {
			got = err
		}))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("error response is routed to error handler", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		var got error
		h := func(ctx handler.Context, req string) handler.Response { return handler.Error(boom) }

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithErrorHandler[handler.Context, string](func(ctx handler.Context, err error) {
			got = err
		}))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, boom)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, string] {
			return func(next handler.HandlerFunc[handler.Context, string]) handler.HandlerFunc[handler.Context, string] {
				return func(ctx handler.Context, req string) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := func(ctx handler.Context, req string) handler.Response {
			order = append(order, "handler")
			return mockResponse{statusCode: http.StatusNoContent}
		}

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithDecorators(mark("first"), mark("second")))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("custom error handler with error writer", func(t *testing.T) {
		t.Parallel()
		ew := handler.NewErrorWriter(logger.Discard())
		h := func(ctx handler.Context, req string) handler.Response {
			return handler.Error(handler.ErrConflict)
		}

		rec := httptest.NewRecorder()
		handler.Wrap(h, handler.WithErrorHandler[handler.Context, string](handler.NewErrorHandler(ew)))(
			rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(contextWith(req, key{}, 42))
	ctx := handler.NewContext(httptest.NewRecorder(), req)

	assert.Equal(t, 42, handler.ContextValue[int](ctx, key{}))
	assert.Equal(t, "", handler.ContextValue[string](ctx, key{}))

	v, ok := handler.ContextValueOK[int](ctx, key{})
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = handler.ContextValueOK[int](ctx, "missing")
	assert.False(t, ok)
}
