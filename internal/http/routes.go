package http

import (
	"time"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Tasks   *service.TaskService
	Tokens  *service.TokenIssuer
	Hub     *ws.Hub
	Store   handlers.Pinger
	Version string

	AllowedOrigins []string
	APIRateLimit   int
	APIRateWindow  time.Duration
	WriteRateLimit int

	// BotToken enables the Telegram WebApp token exchange when JWT is on.
	BotToken    string
	BotAdminIDs []int64
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Tasks)
	health := handlers.HealthDeps{
		Store:   d.Store,
		Tasks:   func() int { return len(d.Tasks.Tasks()) },
		Version: d.Version,
	}
	if middleware.RedisEnabled() {
		health.Cache = handlers.PingFunc(middleware.PingRedis)
	}
	if d.Hub != nil {
		health.Clients = d.Hub.Len
	}
	healthHandler := handlers.NewHealthHandler(health)

	r.Use(middleware.RequestID(), middleware.RequestLogger())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(d.APIRateLimit, d.APIRateWindow))
	registerAPIRoutes(v1, h, d)

	// live board push
	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, d.AllowedOrigins))
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, d Deps) {
	// mutating routes: bearer auth (when configured), then per-writer limit
	write := []gin.HandlerFunc{middleware.JWT(d.Tokens), middleware.WriteRateLimit(d.WriteRateLimit, d.APIRateWindow)}
	w := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), handler)
	}

	// Tasks
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.POST("/tasks", w(h.CreateTask)...)
	api.PUT("/tasks/:id", w(h.ReplaceTask)...)
	api.PATCH("/tasks/:id", w(h.PatchTask)...)
	api.DELETE("/tasks/:id", w(h.DeleteTask)...)
	api.POST("/tasks/:id/toggle", w(h.ToggleTask)...)

	// Derived views
	api.GET("/board", h.Board)
	api.GET("/analytics", h.Analytics)
	api.GET("/activity", h.Activity)

	// Telegram Mini App login
	if d.BotToken != "" && d.Tokens.Enabled() {
		auth := handlers.NewAuthHandler(d.Tokens, d.BotToken, d.BotAdminIDs)
		api.POST("/auth/telegram", middleware.WriteRateLimit(d.WriteRateLimit, d.APIRateWindow), auth.Telegram)
	}

	// Session view selection
	api.GET("/view", h.GetView)
	api.PUT("/view", w(h.PutView)...)
}
