package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/i18n"
)

func contextWith(r *http.Request, key, val any) context.Context {
	return context.WithValue(r.Context(), key, val)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("success envelope", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, handler.JSON(map[string]string{"message": "Hello World!"}).Render(rec, req))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

		body := decodeEnvelope(t, rec)
		assert.Equal(t, map[string]any{"message": "Hello World!"}, body["data"])

		meta, ok := body["meta"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "fr", meta["language"])
		assert.Equal(t, handler.StatusSuccess, meta["status"])
		assert.NotContains(t, meta, "errorDescription")

		ts, ok := meta["timestamp"].(string)
		require.True(t, ok)
		_, err := time.Parse(time.RFC3339Nano, ts)
		assert.NoError(t, err)
	})

	t.Run("status, cookies and locale", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(i18n.SetLocale(req.Context(), "en"))
		rec := httptest.NewRecorder()

		resp := handler.JSON(nil,
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithCookies(&http.Cookie{Name: "access_token", Value: "tok"}),
		)
		require.NoError(t, resp.Render(rec, req))

		assert.Equal(t, http.StatusCreated, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "access_token", cookies[0].Name)

		body := decodeEnvelope(t, rec)
		assert.Contains(t, body, "data")
		assert.Nil(t, body["data"])
		assert.Equal(t, "en", body["meta"].(map[string]any)["language"])
	})
}
