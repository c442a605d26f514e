package middleware

import (
	"strconv"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request and records HTTP metrics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		log := logger.WithContext(c.Request.Context())
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			log.Error("http request", args...)
		case status >= 400:
			log.Warn("http request", args...)
		default:
			log.Info("http request", args...)
		}
	}
}
