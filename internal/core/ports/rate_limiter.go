package ports

import (
	"context"
	"time"
)

// RateLimiter counts hits for a key inside a fixed window and reports
// whether the caller is over the limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
