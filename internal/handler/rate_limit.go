package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/service"
)

// RateLimitMiddleware throttles requests per key. Limiter failures fail
// open: an unavailable Redis must not take authentication down with it.
func RateLimitMiddleware(limiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		remaining, _ := limiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("X-RateLimit-Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			c.JSON(http.StatusTooManyRequests, dto.Envelope{
				Status:  http.StatusTooManyRequests,
				Message: "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPBasedKey derives the rate-limit key from the client IP, honouring
// X-Forwarded-For set by proxies.
func IPBasedKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}
