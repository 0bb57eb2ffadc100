package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fraudlab/fraudsim/internal/ratelimit"
)

// RateLimit rejects requests over the limiter's window, keyed by caller IP
// and path.
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + c.FullPath()
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
