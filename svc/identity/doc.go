// Package identity is a client for a GoTrue-compatible identity provider
// (Supabase Auth). The provider owns accounts and credentials; this package
// only forwards calls to it through the supabase-community GoTrue SDK.
//
// Every call is a live round-trip bound to the caller's context. Nothing is
// cached or retried: a bearer token is valid exactly when the provider says so.
//
//	client := identity.New(cfg)
//	res, err := client.SignInWithPassword(ctx, email, password)
//	if err != nil {
//		var perr *identity.ProviderError
//		if errors.As(err, &perr) {
//			// perr.Status, perr.Message come from the provider
//		}
//	}
//
// Non-2xx responses become *ProviderError carrying the provider's message
// text unchanged, so callers can map them with a closed table. ResolveUser
// reports ErrInvalidToken when the provider rejects the token.
package identity
