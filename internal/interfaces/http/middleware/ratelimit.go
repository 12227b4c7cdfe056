package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripdesk/tripdesk/internal/infrastructure/ratelimit"
	"github.com/tripdesk/tripdesk/internal/shared/errors"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils"
)

// RateLimiter applies a fixed-window limit per client IP.
// This works correctly in multi-instance deployments since all instances share Redis.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limit   int
	window  time.Duration
	logger  logger.Interface
}

// NewRateLimiter creates the middleware. A nil limiter disables limiting.
func NewRateLimiter(limiter ratelimit.RateLimiter, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limit:   limit,
		window:  window,
		logger:  log,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil {
			c.Next()
			return
		}

		decision, err := rl.limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP(), rl.limit, rl.window)
		if err != nil {
			// If Redis is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			utils.AbortWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			return
		}

		c.Next()
	}
}
