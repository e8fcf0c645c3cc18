package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/svc/auth"
)

func TestParseTransportMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    auth.TransportMode
		wantErr bool
	}{
		{"", auth.TransportCookie, false},
		{"cookie", auth.TransportCookie, false},
		{" Header ", auth.TransportHeader, false},
		{"both", "", true},
	}
	for _, tt := range tests {
		got, err := auth.ParseTransportMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTransport_Cookie(t *testing.T) {
	t.Parallel()

	tr := auth.NewTransport(auth.TransportCookie, auth.WithSecureCookies(true))
	assert.False(t, tr.ExposeSession())

	cookies := tr.LoginCookies(session())
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), c.MaxAge)
	}
	assert.Equal(t, auth.AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, "at", cookies[0].Value)
	assert.Equal(t, auth.RefreshTokenCookie, cookies[1].Name)
	assert.Equal(t, "rt", cookies[1].Value)

	for _, c := range tr.LogoutCookies() {
		assert.Negative(t, c.MaxAge)
		assert.Empty(t, c.Value)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, tr.Extract(r))
	r.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "rt"})
	assert.Empty(t, tr.Extract(r), "refresh token is never a credential")
	r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "at"})
	assert.Equal(t, "at", tr.Extract(r))
}

func TestTransport_Header(t *testing.T) {
	t.Parallel()

	tr := auth.NewTransport(auth.TransportHeader)
	assert.True(t, tr.ExposeSession())
	assert.Nil(t, tr.LoginCookies(session()))
	assert.Nil(t, tr.LogoutCookies())

	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
		"Bearer  abc ": "abc",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)
		assert.Equal(t, want, tr.Extract(r), header)
	}
}
