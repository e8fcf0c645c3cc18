package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// recordScript trims the sorted set to the window and adds n members when
// they fit. Scores are unix milliseconds.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local n = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local recorded = 0
if n > 0 and count + n <= limit then
	for i = 1, n do
		redis.call('ZADD', key, now, member .. ':' .. i)
	end
	count = count + n
	recorded = 1
end
if count > 0 then
	redis.call('PEXPIRE', key, window)
end

local oldest = 0
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if #first > 0 then
	oldest = tonumber(first[2])
end
return {recorded, count, oldest}
`)

// RedisStore keeps sliding windows in Redis sorted sets, so every gateway
// instance shares the same limits.
type RedisStore struct {
	client RedisClient
	prefix string
}

// RedisClient is the subset of *redis.Client used by RedisStore.
type RedisClient interface {
	redis.Scripter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Record(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (Window, error) {
	return s.run(ctx, key, now, window, limit, n)
}

func (s *RedisStore) Count(ctx context.Context, key string, now time.Time, window time.Duration) (Window, error) {
	return s.run(ctx, key, now, window, 0, 0)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) run(ctx context.Context, key string, now time.Time, window time.Duration, limit, n int) (Window, error) {
	vals, err := recordScript.Run(ctx, s.client, []string{s.prefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, n, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	if len(vals) != 3 {
		return Window{}, fmt.Errorf("ratelimit: unexpected script reply of %d values", len(vals))
	}

	w := Window{Recorded: vals[0] == 1, Count: int(vals[1])}
	if vals[2] > 0 {
		w.Oldest = time.UnixMilli(vals[2])
	}
	return w, nil
}
