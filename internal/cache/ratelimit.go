package cache

import (
	"context"
	"time"
)

// rateLimitPrefix is the Redis key prefix for per-session rate limit windows.
const rateLimitPrefix = "ratelimit:session:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// CheckSessionRateLimit checks and updates the fixed-window rate limit for
// a session. The window is one minute, keyed by token digest. Fails open on
// Redis errors so a cache outage never locks callers out.
func (c *Cache) CheckSessionRateLimit(ctx context.Context, digest string, limitPerMinute int) (*RateLimitResult, error) {
	key := rateLimitPrefix + digest

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return &RateLimitResult{Allowed: true, Remaining: int64(limitPerMinute)}, nil
	}

	if count == 1 {
		// First hit in this window; start the clock.
		if err := c.client.Expire(ctx, key, time.Minute).Err(); err != nil {
			return &RateLimitResult{Allowed: true, Remaining: int64(limitPerMinute) - count}, nil
		}
	}

	remaining := int64(limitPerMinute) - count
	if remaining < 0 {
		remaining = 0
	}

	result := &RateLimitResult{
		Allowed:   count <= int64(limitPerMinute),
		Remaining: remaining,
	}

	if !result.Allowed {
		ttl, err := c.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = time.Minute
		}
		result.RetryAfter = ttl
	}

	return result, nil
}
