package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow allows at most limit requests per key within any window-long
// interval, tracking individual request timestamps.
type SlidingWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// SlidingWindowOption configures a SlidingWindow.
type SlidingWindowOption func(*SlidingWindow)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SlidingWindowOption {
	return func(sw *SlidingWindow) {
		if now != nil {
			sw.now = now
		}
	}
}

func NewSlidingWindow(store Store, limit int, window time.Duration, opts ...SlidingWindowOption) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	sw := &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	return sw.AllowN(ctx, key, 1)
}

// AllowN records n requests at once, or none when they do not all fit.
func (sw *SlidingWindow) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if n <= 0 {
		n = 1
	}

	now := sw.now()
	w, err := sw.store.Record(ctx, key, now, sw.window, sw.limit, n)
	if err != nil {
		return nil, err
	}
	return sw.result(w, w.Recorded, now), nil
}

func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := sw.now()
	w, err := sw.store.Count(ctx, key, now, sw.window)
	if err != nil {
		return nil, err
	}
	return sw.result(w, w.Count < sw.limit, now), nil
}

func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return sw.store.Delete(ctx, key)
}

func (sw *SlidingWindow) Limit() int { return sw.limit }

func (sw *SlidingWindow) Window() time.Duration { return sw.window }

func (sw *SlidingWindow) result(w Window, allowed bool, now time.Time) *Result {
	resetAt := now.Add(sw.window)
	if !w.Oldest.IsZero() {
		resetAt = w.Oldest.Add(sw.window)
	}
	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-w.Count),
		ResetAt:   resetAt,
	}
}
