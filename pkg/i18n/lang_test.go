package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/i18n"
)

func TestNewMatcher(t *testing.T) {
	t.Parallel()

	_, err := i18n.NewMatcher()
	require.ErrorIs(t, err, i18n.ErrLanguageNotSupported)

	_, err = i18n.NewMatcher("fr", "not a tag!")
	require.ErrorIs(t, err, i18n.ErrLanguageNotSupported)
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	m, err := i18n.NewMatcher("fr", "en")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "fr"},
		{"exact match", "en", "en"},
		{"regional variant", "en-US,en;q=0.9", "en"},
		{"quality ordering", "de;q=0.9,en;q=0.5,fr;q=0.8", "fr"},
		{"unsupported language", "de-DE", "fr"},
		{"garbage", ";;;==", "fr"},
		{"oversized header", strings.Repeat("en,", 2000), "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.Match(tt.header))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m, err := i18n.NewMatcher("fr", "en")
	require.NoError(t, err)

	var seen string
	h := i18n.Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = i18n.GetLocale(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "en", seen)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestGetLocale_Default(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fr", i18n.GetLocale(context.Background()))
	assert.Equal(t, "en", i18n.GetLocale(i18n.SetLocale(context.Background(), "en")))
}
