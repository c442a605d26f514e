package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/bot"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/seed"
	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open task store", "driver", cfg.StoreDriver, "error", err)
	}

	opts := []service.Option{service.WithLocation(cfg.Location)}
	var pinger handlers.Pinger
	if store != nil {
		defer store.Close()
		opts = append(opts, service.WithRepository(store.Repo), service.WithAudit(service.NewAuditService(store.Events)))
		pinger = store
	}
	tasks := service.NewTaskService(opts...)

	initial, err := initialTasks(cfg)
	if err != nil {
		logger.Fatal("failed to load seed", "error", err)
	}
	if err := tasks.Restore(ctx, initial); err != nil {
		logger.Fatal("failed to restore tasks", "error", err)
	}

	hub := ws.NewHub(tasks)
	tasks.OnChange(hub.OnChange)

	middleware.InitRedisRateLimiter(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedisRateLimiter()

	if cfg.BotEnabled {
		b, err := bot.New(cfg.BotToken, tasks, cfg.BotAdminIDs)
		if err != nil {
			logger.Error("failed to start bot", "error", err)
		} else {
			tasks.OnChange(b.Notify)
			go b.Start()
			defer b.Stop()
		}
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, mutating routes are unauthenticated")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Tasks:          tasks,
		Tokens:         service.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour),
		Hub:            hub,
		Store:          pinger,
		Version:        cfg.AppVersion,
		AllowedOrigins: cfg.AllowedOrigins,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  cfg.APIRateWindow,
		WriteRateLimit: cfg.WriteRateLimit,
		BotToken:       cfg.BotToken,
		BotAdminIDs:    cfg.BotAdminIDs,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: cors(cfg.AllowedOrigins)(r),
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.StoreDriver, "tasks", len(tasks.Tasks()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// initialTasks is what an empty store starts with: the seed file, the
// sample board, or nothing.
func initialTasks(cfg *config.Config) ([]*domain.Task, error) {
	switch {
	case cfg.SeedFile != "":
		return seed.LoadFile(cfg.SeedFile)
	case cfg.SeedSample:
		return seed.Sample(), nil
	}
	return nil, nil
}

// cors allows the configured origins (all when empty) for browser clients
// on another domain.
func cors(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.RequestIDHeader}),
		gorillahandlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
		gorillahandlers.AllowCredentials(),
	)
}
