package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourmetrics/matchup-engine/internal/api/handlers"
	"github.com/tourmetrics/matchup-engine/internal/api/middleware"
	"github.com/tourmetrics/matchup-engine/internal/cache"
	"github.com/tourmetrics/matchup-engine/internal/engine"
	"github.com/tourmetrics/matchup-engine/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, eng *engine.Engine, cacheSvc *cache.Service, cfg *config.Config, logger *logrus.Logger) {
	compareHandler := handlers.NewCompareHandler(eng, cacheSvc, cfg, logger)
	simulateHandler := handlers.NewSimulateHandler(eng, cacheSvc, cfg, logger)

	group.GET("/domains", compareHandler.Domains)

	// Comparison and simulation are the compute-heavy endpoints; both sit
	// behind the shared rate limiter.
	limited := group.Group("")
	limited.Use(middleware.RateLimit(cfg.CompareRateLimit, cfg.CompareRateBurst))
	{
		limited.POST("/compare", compareHandler.Compare)
		limited.POST("/simulate", simulateHandler.Simulate)
	}
}
