// Package ratelimit bounds ingestion throughput per api key with a redis
// sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beaver-systems/beaver/internal/metrics"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedis connects to redis and returns a sliding-window limiter allowing
// limit requests per window per key.
func NewRedis(redisURL string, limit int, window time.Duration) (RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &redisRateLimiter{client: client, limit: int64(limit), window: window}, nil
}

// allowScript prunes entries outside the window, counts what remains and
// admits the request only under the limit. Runs atomically in redis.
const allowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

local current = redis.call('ZCARD', key)
if current < limit then
	redis.call('ZADD', key, now, now)
	redis.call('EXPIRE', key, ttl)
	return 1
end
return 0
`

func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - r.window.Nanoseconds()
	ttl := int64(r.window.Seconds()) + 1

	result, err := r.client.Eval(ctx, allowScript,
		[]string{"ratelimit:" + key}, now, windowStart, r.limit, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := result == 1
	if !allowed {
		metrics.IngestRejected.WithLabelValues("rate_limited").Inc()
	}
	return allowed, nil
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOp admits everything, for deployments without redis.
type NoOp struct{}

func (NoOp) Allow(context.Context, string) (bool, error) { return true, nil }

func (NoOp) Close() error { return nil }
