package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding windows in process memory. Suitable for a single
// gateway instance; use RedisStore when several instances share limits.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	maxAge  time.Duration

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often idle keys are purged.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithMaxWindow sets the longest window served by the store. Keys whose newest
// hit is older than this are purged by the cleanup loop. Record raises the
// bound on its own when it sees a longer window.
func WithMaxWindow(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// NewMemoryStore creates a store and starts its cleanup goroutine. Call Close
// to stop it.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string][]time.Time),
		maxAge:          time.Hour,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) Record(_ context.Context, key string, now time.Time, window time.Duration, limit, n int) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if window > s.maxAge {
		s.maxAge = window
	}

	hits := prune(s.windows[key], now.Add(-window))
	recorded := len(hits)+n <= limit
	if recorded {
		for range n {
			hits = append(hits, now)
		}
	}
	s.store(key, hits)

	return snapshot(hits, recorded), nil
}

func (s *MemoryStore) Count(_ context.Context, key string, now time.Time, window time.Duration) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hits := prune(s.windows[key], now.Add(-window))
	s.store(key, hits)

	return snapshot(hits, false), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

func (s *MemoryStore) store(key string, hits []time.Time) {
	if len(hits) == 0 {
		delete(s.windows, key)
		return
	}
	s.windows[key] = hits
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.cleanup(now)
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.maxAge)
	for key, hits := range s.windows {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(s.windows, key)
		}
	}
}

// prune returns the hits strictly after cutoff. Hits are kept in
// chronological order, so the slice is cut at the first survivor.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range hits {
		if ts.After(cutoff) {
			return hits[i:]
		}
	}
	return nil
}

func snapshot(hits []time.Time, recorded bool) Window {
	w := Window{Recorded: recorded, Count: len(hits)}
	if len(hits) > 0 {
		w.Oldest = hits[0]
	}
	return w
}
