package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/ratelimit"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewSlidingWindow_Validation(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	_, err := ratelimit.NewSlidingWindow(nil, 1, time.Second)
	assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)
	_, err = ratelimit.NewSlidingWindow(store, 0, time.Second)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
	_, err = ratelimit.NewSlidingWindow(store, 1, 0)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidInterval)
}

func TestSlidingWindow_MemoryStore(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	testSlidingWindow(t, store)
}

func testSlidingWindow(t *testing.T, store ratelimit.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("admits up to limit then rejects", func(t *testing.T) {
		clk := newClock()
		limiter, err := ratelimit.NewSlidingWindow(store, 3, time.Hour, ratelimit.WithClock(clk.Now))
		require.NoError(t, err)

		for i := range 3 {
			res, err := limiter.Allow(ctx, "ip:a")
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 2-i, res.Remaining)
			clk.Advance(time.Minute)
		}

		res, err := limiter.Allow(ctx, "ip:a")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
		// The oldest hit was recorded at 12:00.
		assert.True(t, res.ResetAt.Equal(time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)), res.ResetAt)

		other, err := limiter.Allow(ctx, "ip:b")
		require.NoError(t, err)
		assert.True(t, other.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		clk := newClock()
		limiter, err := ratelimit.NewSlidingWindow(store, 2, time.Minute, ratelimit.WithClock(clk.Now))
		require.NoError(t, err)

		_, _ = limiter.Allow(ctx, "slide")
		clk.Advance(30 * time.Second)
		_, _ = limiter.Allow(ctx, "slide")

		res, _ := limiter.Allow(ctx, "slide")
		assert.False(t, res.Allowed)

		clk.Advance(31 * time.Second)
		res, err = limiter.Allow(ctx, "slide")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("status does not consume", func(t *testing.T) {
		clk := newClock()
		limiter, err := ratelimit.NewSlidingWindow(store, 2, time.Minute, ratelimit.WithClock(clk.Now))
		require.NoError(t, err)

		for range 3 {
			res, err := limiter.Status(ctx, "status")
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 2, res.Remaining)
		}
	})

	t.Run("reset clears key", func(t *testing.T) {
		clk := newClock()
		limiter, err := ratelimit.NewSlidingWindow(store, 1, time.Hour, ratelimit.WithClock(clk.Now))
		require.NoError(t, err)

		_, _ = limiter.Allow(ctx, "reset")
		res, _ := limiter.Allow(ctx, "reset")
		assert.False(t, res.Allowed)

		require.NoError(t, limiter.Reset(ctx, "reset"))
		res, _ = limiter.Allow(ctx, "reset")
		assert.True(t, res.Allowed)
	})

	t.Run("allowN is all or nothing", func(t *testing.T) {
		clk := newClock()
		limiter, err := ratelimit.NewSlidingWindow(store, 3, time.Hour, ratelimit.WithClock(clk.Now))
		require.NoError(t, err)

		res, _ := limiter.AllowN(ctx, "bulk", 2)
		assert.True(t, res.Allowed)
		res, _ = limiter.AllowN(ctx, "bulk", 2)
		assert.False(t, res.Allowed)
		assert.Equal(t, 1, res.Remaining)
	})

	t.Run("empty key", func(t *testing.T) {
		limiter, err := ratelimit.NewSlidingWindow(store, 1, time.Hour)
		require.NoError(t, err)

		_, err = limiter.Allow(ctx, "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
		_, err = limiter.Status(ctx, "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
		assert.ErrorIs(t, limiter.Reset(ctx, ""), ratelimit.ErrKeyRequired)
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	limiter, err := ratelimit.NewSlidingWindow(store, 50, time.Hour)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(context.Background(), "shared")
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Record(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (ratelimit.Window, error) {
	args := m.Called(ctx, key, now, window, limit, n)
	return args.Get(0).(ratelimit.Window), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, key string, now time.Time, window time.Duration) (ratelimit.Window, error) {
	args := m.Called(ctx, key, now, window)
	return args.Get(0).(ratelimit.Window), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestSlidingWindow_StoreError(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	boom := errors.New("store down")
	store.On("Record", mock.Anything, "k", mock.Anything, time.Minute, 5, 1).Return(ratelimit.Window{}, boom)

	limiter, err := ratelimit.NewSlidingWindow(store, 5, time.Minute)
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	store.AssertExpectations(t)
}
