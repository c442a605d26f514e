package middleware

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// WriteRateLimit limits mutating requests per writer: the JWT subject
// when auth is on, the client IP otherwise. Uses Redis when configured.
func WriteRateLimit(maxWrites int, window time.Duration) gin.HandlerFunc {
	local := newFixedWindow(maxWrites, window)
	return func(c *gin.Context) {
		writer := c.ClientIP()
		if sub, ok := Subject(c); ok {
			writer = "sub:" + sub
		}

		var (
			count int64
			ok    bool
		)
		if redisClient != nil {
			key := "write_rl:" + writer + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			val, err := incrWindow(c.Request.Context(), key, window)
			if err != nil {
				// fail-open
				logger.WithContext(c.Request.Context()).Warn("write rate limit redis error", "error", err)
				c.Header("X-WriteRateLimit-Error", "redis-error")
				c.Next()
				return
			}
			count, ok = val, val <= int64(maxWrites)
		} else {
			n, allowed := local.allow(writer)
			count, ok = int64(n), allowed
		}

		c.Header("X-WriteRateLimit-Limit", strconv.Itoa(maxWrites))
		c.Header("X-WriteRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxWrites)-count), 10))

		if !ok {
			RLBlocked.WithLabelValues(scopeWrite, c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "write rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(scopeWrite, c.FullPath()).Inc()
		c.Next()
	}
}
