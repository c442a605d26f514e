package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// fixedWindow counts hits per key in fixed windows, in process.
type fixedWindow struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	clients map[string]*clientInfo
}

func newFixedWindow(max int, window time.Duration) *fixedWindow {
	return &fixedWindow{max: max, window: window, now: time.Now, clients: make(map[string]*clientInfo)}
}

// allow records a hit for key and returns the hit count in the current
// window and whether it is within the limit.
func (fw *fixedWindow) allow(key string) (int, bool) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	ci, ok := fw.clients[key]
	if !ok || now.Sub(ci.start) > fw.window {
		ci = &clientInfo{start: now}
		fw.clients[key] = ci
		fw.gc(now)
	}
	ci.count++
	return ci.count, ci.count <= fw.max
}

// gc drops expired windows; called with mu held.
func (fw *fixedWindow) gc(now time.Time) {
	if len(fw.clients) < 1024 {
		return
	}
	for k, ci := range fw.clients {
		if now.Sub(ci.start) > fw.window {
			delete(fw.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	fw := newFixedWindow(maxRequests, window)
	return func(c *gin.Context) {
		if _, ok := fw.allow(c.ClientIP()); !ok {
			RLBlocked.WithLabelValues(scopeAPI, c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(scopeAPI, c.FullPath()).Inc()
		c.Next()
	}
}
