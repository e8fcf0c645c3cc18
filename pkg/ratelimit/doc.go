// Package ratelimit provides per-key sliding window rate limiting for HTTP
// handlers.
//
// A SlidingWindow limiter admits at most Limit requests per key within any
// Window-long interval. Hits are stored by a Store: MemoryStore for a single
// instance, RedisStore (sorted sets updated by a Lua script) when several
// gateway instances must share limits.
//
//	store := ratelimit.NewMemoryStore()
//	defer store.Close()
//
//	limiter, _ := ratelimit.NewSlidingWindow(store, 5, time.Hour)
//	r.With(ratelimit.Middleware(limiter, ratelimit.ByIP("login"))).Post("/login", h)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response, adds Retry-After on rejection
// and fails open when the store errors.
package ratelimit
