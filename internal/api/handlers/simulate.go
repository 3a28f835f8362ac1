package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourmetrics/matchup-engine/internal/cache"
	"github.com/tourmetrics/matchup-engine/internal/engine"
	"github.com/tourmetrics/matchup-engine/pkg/config"
	"github.com/tourmetrics/matchup-engine/pkg/utils"
)

// SimulateHandler serves outcome-distribution requests through the
// read-through cache.
type SimulateHandler struct {
	engine *engine.Engine
	cache  *cache.Service
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSimulateHandler creates a new simulation handler
func NewSimulateHandler(eng *engine.Engine, cacheSvc *cache.Service, cfg *config.Config, logger *logrus.Logger) *SimulateHandler {
	return &SimulateHandler{
		engine: eng,
		cache:  cacheSvc,
		cfg:    cfg,
		logger: logger,
	}
}

// Simulate runs the outcome simulator for one participant.
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req engine.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if _, err := h.engine.Domain(req.Domain); err != nil {
		utils.SendValidationError(c, "Unknown domain", err.Error())
		return
	}

	if req.Simulations <= 0 {
		req.Simulations = h.cfg.DefaultSimulations
	}
	if h.cfg.MaxSimulations > 0 && req.Simulations > h.cfg.MaxSimulations {
		req.Simulations = h.cfg.MaxSimulations
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.FetchTimeout)
	defer cancel()

	lookup, err := h.cache.GetOrCompute(ctx, req.CacheKey(), func(ctx context.Context) (interface{}, error) {
		return h.engine.Simulate(ctx, &req)
	})
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}

	utils.SendSuccessWithMeta(c, json.RawMessage(lookup.Payload), &utils.Meta{
		Source:     lookup.Source,
		ComputedAt: lookup.ComputedAt.Format(time.RFC3339),
		Degraded:   lookup.Degraded,
	})
}
