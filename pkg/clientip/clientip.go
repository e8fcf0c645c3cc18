// Package clientip resolves the caller's IP address, the key of the per-IP
// rate limiters.
//
// Forwarding headers are honoured only when the gateway runs behind a proxy
// that sets them; otherwise any client could rotate X-Forwarded-For to escape
// its rate limit window.
package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultProxyHeaders are checked in order when proxy headers are trusted.
var DefaultProxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts client IPs from requests.
type Resolver struct {
	// Headers lists forwarding headers to trust, in priority order.
	// Empty means RemoteAddr only.
	Headers []string
}

// NewResolver returns a Resolver. With trustProxy it reads DefaultProxyHeaders.
func NewResolver(trustProxy bool) Resolver {
	if trustProxy {
		return Resolver{Headers: DefaultProxyHeaders}
	}
	return Resolver{}
}

// GetIP returns the normalized client IP, or "" when none can be parsed.
func (res Resolver) GetIP(r *http.Request) string {
	for _, h := range res.Headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For carries a chain; the first valid entry is the client.
		for part := range strings.SplitSeq(v, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved IP in the request context.
func (res Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.GetIP(r))))
	})
}

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
