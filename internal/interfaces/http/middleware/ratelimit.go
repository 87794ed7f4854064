package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/infrastructure/ratelimit"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// RateLimiter throttles a route per client IP. A nil limiter disables it,
// which is the case when Redis is not configured.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil {
			c.Next()
			return
		}

		key := c.FullPath() + ":" + c.ClientIP()
		allowed, err := rl.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			limited := apperrors.NewBadRequestError("rate limit exceeded, please try again later")
			limited.Code = http.StatusTooManyRequests
			utils.ErrorResponseWithError(c, limited)
			c.Abort()
			return
		}

		c.Next()
	}
}
