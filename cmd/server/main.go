package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tourmetrics/matchup-engine/internal/api"
	"github.com/tourmetrics/matchup-engine/internal/api/handlers"
	"github.com/tourmetrics/matchup-engine/internal/api/middleware"
	"github.com/tourmetrics/matchup-engine/internal/cache"
	"github.com/tourmetrics/matchup-engine/internal/domains"
	"github.com/tourmetrics/matchup-engine/internal/engine"
	"github.com/tourmetrics/matchup-engine/internal/repository"
	"github.com/tourmetrics/matchup-engine/pkg/config"
	"github.com/tourmetrics/matchup-engine/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to the result store
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis for the durable cache tier; empty REDIS_URL runs
	// with the local tier only.
	var durable *cache.RedisStore
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		durable = cache.NewRedisStore(redisClient, "matchup:", logger)
	} else {
		logrus.Warn("REDIS_URL empty, durable cache tier disabled")
	}

	// Initialize the engine over the breaker-protected repository
	resultStore := repository.NewResultStore(db, logger)
	breaker := repository.NewBreakerRepository(resultStore, cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, logger)

	eng := engine.New(breaker, engine.Options{
		MinEvents:    cfg.MinEvents,
		DefaultLastN: cfg.DefaultLastN,
	}, logger)
	for _, d := range domains.All() {
		eng.Register(d)
	}
	logrus.Infof("Registered domains: %v", eng.DomainNames())

	cacheSvc := cache.NewService(cache.NewLocalStore(), durable, cfg.CacheTTL, cfg.DurableCacheTTL, logger)

	// Background janitor sweeps expired local cache entries
	janitor := cron.New()
	if _, err := janitor.AddFunc(cfg.CacheSweepSpec, cacheSvc.SweepLocal); err != nil {
		logrus.Fatalf("Invalid cache sweep spec: %v", err)
	}
	janitor.Start()
	defer janitor.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(breaker)
	router.GET("/health", healthHandler.Health)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, eng, cacheSvc, cfg, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
