package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a backend that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthDeps are the probes behind the health endpoints. Nil fields are
// reported as not configured.
type HealthDeps struct {
	Store   Pinger // nil for the memory driver
	Cache   Pinger // Redis rate limiter; optional, never fails readiness
	Tasks   func() int
	Clients func() int
	Version string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	deps      HealthDeps
	startTime time.Time
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{deps: deps, startTime: time.Now()}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports every probe; only the task store decides the status.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"storage": probe(ctx, h.deps.Store, "memory"),
		"redis":   probe(ctx, h.deps.Cache, "disabled"),
	}
	if h.deps.Tasks != nil {
		checks["tasks"] = strconv.Itoa(h.deps.Tasks())
	}
	if h.deps.Clients != nil {
		checks["ws_clients"] = strconv.Itoa(h.deps.Clients())
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024)

	status, code := "healthy", http.StatusOK
	if checks["storage"] != "healthy" && checks["storage"] != "memory" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.deps.Version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is the short form of Readiness for load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.deps.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.deps.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "storage unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.deps.Version})
}

func probe(ctx context.Context, p Pinger, absent string) string {
	if p == nil {
		return absent
	}
	if err := p.Ping(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
