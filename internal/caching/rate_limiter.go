package caching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "plmsourcing:ratelimit:"

// RateLimiter counts hits per key in fixed windows
type RateLimiter interface {
	// IsRateLimited records one hit for key and reports whether the key is
	// over limit within the current window
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// Remaining reports how many hits key has left and when its window resets
	Remaining(ctx context.Context, key string, limit int) (int, time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
}

// NewRedisClient builds a client from a host:port address or a redis:// URL
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

func rateLimitKey(key string) string {
	return rateLimitPrefix + key
}

func (r *redisRateLimiter) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// first hit opens the window
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count > int64(limit), nil
}

func (r *redisRateLimiter) Remaining(ctx context.Context, key string, limit int) (int, time.Duration, error) {
	cacheKey := rateLimitKey(key)
	var count *redis.StringCmd
	var ttl *redis.DurationCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Get(ctx, cacheKey)
		ttl = pipe.PTTL(ctx, cacheKey)
		return nil
	})
	if err != nil && err != redis.Nil {
		return 0, 0, err
	}

	used, err := count.Int()
	if err == redis.Nil {
		return limit, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	reset := ttl.Val()
	if reset < 0 {
		reset = 0
	}
	return remaining, reset, nil
}

func (r *redisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}
