package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/internal/core/ports"
)

// RateLimitMiddleware throttles a route by caller IP using a fixed-window
// counter. A limiter error fails open: registration availability wins over
// strict throttling.
type RateLimitMiddleware struct {
	limiter ports.RateLimiter
	limit   int
	window  time.Duration
	logger  *logrus.Logger
}

func NewRateLimitMiddleware(limiter ports.RateLimiter, limit int, window time.Duration, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, limit: limit, window: window, logger: logger}
}

func (m *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.limiter == nil || m.limit <= 0 {
				return next(c)
			}

			allowed, err := m.limiter.Allow(c.Request().Context(), c.RealIP(), m.limit, m.window)
			if err != nil {
				if m.logger != nil {
					m.logger.WithError(err).Warn("rate limiter unavailable, allowing request")
				}
				return next(c)
			}
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
			}

			return next(c)
		}
	}
}
