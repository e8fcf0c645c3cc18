package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/tournament-auth/svc/identity"
)

// TransportMode selects how credentials travel between client and gateway.
type TransportMode string

const (
	// TransportCookie keeps tokens in httpOnly cookies.
	TransportCookie TransportMode = "cookie"
	// TransportHeader returns tokens in the login body and reads
	// Authorization: Bearer on protected routes.
	TransportHeader TransportMode = "header"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	defaultCookieMaxAge = 30 * 24 * time.Hour
)

// ParseTransportMode accepts "cookie" or "header"; empty means cookie.
func ParseTransportMode(s string) (TransportMode, error) {
	switch m := TransportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", TransportCookie:
		return TransportCookie, nil
	case TransportHeader:
		return TransportHeader, nil
	default:
		return "", fmt.Errorf("auth: unknown credential transport %q", s)
	}
}

// Transport extracts and issues credentials in one mode at a time.
type Transport struct {
	mode   TransportMode
	secure bool
	maxAge time.Duration
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithSecureCookies marks issued cookies Secure. Enabled in production.
func WithSecureCookies(secure bool) TransportOption {
	return func(t *Transport) {
		t.secure = secure
	}
}

// WithCookieMaxAge overrides the 30 day cookie lifetime.
func WithCookieMaxAge(d time.Duration) TransportOption {
	return func(t *Transport) {
		if d > 0 {
			t.maxAge = d
		}
	}
}

func NewTransport(mode TransportMode, opts ...TransportOption) *Transport {
	if mode == "" {
		mode = TransportCookie
	}
	t := &Transport{mode: mode, maxAge: defaultCookieMaxAge}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) Mode() TransportMode { return t.mode }

// Extract returns the credential carried by r, or "".
func (t *Transport) Extract(r *http.Request) string {
	if t.mode == TransportHeader {
		return bearerToken(r.Header.Get("Authorization"))
	}
	c, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// ExposeSession reports whether login responses carry the session body.
func (t *Transport) ExposeSession() bool {
	return t.mode == TransportHeader
}

// LoginCookies returns the cookies set after a successful login.
func (t *Transport) LoginCookies(s *identity.Session) []*http.Cookie {
	if t.mode != TransportCookie || s == nil {
		return nil
	}
	return []*http.Cookie{
		t.cookie(AccessTokenCookie, s.AccessToken, int(t.maxAge.Seconds())),
		t.cookie(RefreshTokenCookie, s.RefreshToken, int(t.maxAge.Seconds())),
	}
}

// LogoutCookies returns cookies that clear both credentials.
func (t *Transport) LogoutCookies() []*http.Cookie {
	if t.mode != TransportCookie {
		return nil
	}
	return []*http.Cookie{
		t.cookie(AccessTokenCookie, "", -1),
		t.cookie(RefreshTokenCookie, "", -1),
	}
}

func (t *Transport) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
