package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sampleapp/accounts/internal/core/ports"
)

// FixedWindowLimiter counts hits per key in fixed windows backed by Redis.
type FixedWindowLimiter struct {
	r redis.Cmdable
}

func NewFixedWindowLimiter(r redis.Cmdable) ports.RateLimiter {
	return &FixedWindowLimiter{r: r}
}

// Allow increments the counter for the current window and reports whether
// the hit stays within limit.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	windowStart := time.Now().Truncate(window)
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	pipe := l.r.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit window: %w", err)
	}

	return int(incr.Val()) <= limit, nil
}
