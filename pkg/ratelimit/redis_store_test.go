package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tournament-auth/pkg/ratelimit"
)

func newRedisStore(t *testing.T) (*ratelimit.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })
	return ratelimit.NewRedisStore(client, "test:"), mini
}

func TestSlidingWindow_RedisStore(t *testing.T) {
	t.Parallel()

	store, _ := newRedisStore(t)
	testSlidingWindow(t, store)
}

func TestRedisStore_KeysArePrefixedAndExpire(t *testing.T) {
	t.Parallel()

	store, mini := newRedisStore(t)
	now := time.Now()

	w, err := store.Record(context.Background(), "login:1.2.3.4", now, time.Hour, 5, 1)
	require.NoError(t, err)
	assert.True(t, w.Recorded)
	assert.Equal(t, 1, w.Count)
	assert.Equal(t, now.UnixMilli(), w.Oldest.UnixMilli())

	assert.True(t, mini.Exists("test:login:1.2.3.4"))
	assert.Equal(t, time.Hour, mini.TTL("test:login:1.2.3.4"))

	require.NoError(t, store.Delete(context.Background(), "login:1.2.3.4"))
	assert.False(t, mini.Exists("test:login:1.2.3.4"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	store := ratelimit.NewRedisStore(client, "")

	_, err := store.Record(context.Background(), "k", time.Now(), time.Minute, 1, 1)
	assert.Error(t, err)
}
