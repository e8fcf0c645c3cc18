package ratelimit

import (
	"net/http"

	"github.com/dmitrymomot/tournament-auth/pkg/clientip"
)

// KeyFunc extracts a unique identifier from an HTTP request for rate limiting.
// An empty key lets the request through unlimited.
type KeyFunc func(*http.Request) string

// ByIP keys requests by client IP under scope, so limiters sharing a store do
// not count each other's hits. The IP set by clientip middleware is preferred;
// RemoteAddr is the fallback.
func ByIP(scope string) KeyFunc {
	fallback := clientip.NewResolver(false)
	return func(r *http.Request) string {
		ip := clientip.FromContext(r.Context())
		if ip == "" {
			ip = fallback.GetIP(r)
		}
		if ip == "" {
			return ""
		}
		return scope + ":" + ip
	}
}
