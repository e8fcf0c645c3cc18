package auth

import (
	"context"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

type (
	identityContextKey struct{}
	profileContextKey  struct{}
	tokenContextKey    struct{}
)

// withCurrentUser stores the verified identity, its hydrated profile and the
// credential they were resolved from.
func withCurrentUser(ctx context.Context, token string, id identity.Identity, p *profile.Profile) context.Context {
	ctx = context.WithValue(ctx, tokenContextKey{}, token)
	ctx = context.WithValue(ctx, identityContextKey{}, id)
	return context.WithValue(ctx, profileContextKey{}, p)
}

// ProfileFromContext returns the profile attached by RequireAuth.
func ProfileFromContext(ctx context.Context) (*profile.Profile, bool) {
	p, ok := handler.ContextValueOK[*profile.Profile](ctx, profileContextKey{})
	return p, ok && p != nil
}

// IdentityFromContext returns the identity verified by RequireAuth.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	return handler.ContextValueOK[identity.Identity](ctx, identityContextKey{})
}

// TokenFromContext returns the verified credential, or "".
func TokenFromContext(ctx context.Context) string {
	return handler.ContextValue[string](ctx, tokenContextKey{})
}
