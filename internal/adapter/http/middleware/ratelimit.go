package middleware

import (
	"atm-server/internal/core/ports"
	"atm-server/pkg/apperror"
	"atm-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimiter throttles requests per client IP with the same limiter that
// admits ATM connections. Limiter errors let the request through.
func RateLimiter(limiter ports.ConnectionLimiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), "ops:"+c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		if !ok {
			c.Header("Retry-After", "60")
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}
