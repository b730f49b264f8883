package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// slidingWindowScript keeps one sorted set per client, scored by hit time in ms.
// Returns {allowed, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, 0}
end

local retry = window
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
	retry = tonumber(oldest[2]) + window - now
end
return {0, retry}
`)

// RedisLimiter is a sliding window limiter whose state lives in redis,
// so every replica shares the same per-client quota.
type RedisLimiter struct {
	client   redis.Scripter
	clock    Clock
	cfg      Config
	// instance and seq keep set members unique across replicas and within one millisecond.
	instance string
	seq      atomic.Uint64
}

// NewRedisLimiter creates a limiter on top of a redis client.
func NewRedisLimiter(client redis.Scripter, clock Clock, cfg Config) *RedisLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	return &RedisLimiter{
		client:   client,
		clock:    clock,
		cfg:      cfg.normalized(),
		instance: strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// Allow atomically records a hit for key if it still fits into the window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.clock.Now().UnixMilli()
	member := l.instance + "-" + strconv.FormatUint(l.seq.Add(1), 10)

	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKeyPrefix + key},
		now, l.cfg.Window.Milliseconds(), l.cfg.Limit, member,
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}
	if res[0] == 1 {
		return Decision{Allowed: true}, nil
	}
	return Decision{RetryAfter: time.Duration(res[1]) * time.Millisecond}, nil
}
