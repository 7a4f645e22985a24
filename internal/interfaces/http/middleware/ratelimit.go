package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harvestbox/subscriptions/internal/infrastructure/ratelimit"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
	"github.com/harvestbox/subscriptions/internal/shared/utils"
)

// RateLimiter throttles a route group per client IP.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

// NewRateLimiter allows limit requests per window for each client IP.
// scope keeps counters of different route groups apart.
func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		config:  ratelimit.PerWindow(limit, window),
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":" + c.ClientIP()

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.config)
		if err != nil {
			// Fail open so a Redis outage does not take the endpoint down.
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
