package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	Allowed bool
	// Limit is the maximum number of requests allowed in the window.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// ResetAt is when the oldest request in the window expires.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow consumes one slot when available.
	Allow(ctx context.Context, key string) (*Result, error)
	// Status reports the current state without consuming a slot.
	Status(ctx context.Context, key string) (*Result, error)
	// Reset forgets every request recorded for key.
	Reset(ctx context.Context, key string) error
}

// Window is a snapshot of one key's sliding window.
type Window struct {
	// Recorded reports whether the requested hits were stored.
	Recorded bool
	// Count is the number of hits inside the window after the operation.
	Count int
	// Oldest is the timestamp of the oldest hit, zero when Count is 0.
	Oldest time.Time
}

// Store persists request timestamps for sliding windows. Implementations
// must make Record atomic per key.
type Store interface {
	// Record drops hits older than now-window and stores n hits at now when
	// the window then holds at most limit-n hits.
	Record(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (Window, error)
	// Count drops expired hits and reports the window without recording.
	Count(ctx context.Context, key string, now time.Time, window time.Duration) (Window, error)
	Delete(ctx context.Context, key string) error
}
