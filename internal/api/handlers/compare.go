package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourmetrics/matchup-engine/internal/cache"
	"github.com/tourmetrics/matchup-engine/internal/engine"
	"github.com/tourmetrics/matchup-engine/pkg/config"
	"github.com/tourmetrics/matchup-engine/pkg/utils"
)

// CompareHandler serves composite comparison requests through the
// read-through cache.
type CompareHandler struct {
	engine *engine.Engine
	cache  *cache.Service
	cfg    *config.Config
	logger *logrus.Logger
}

// NewCompareHandler creates a new comparison handler
func NewCompareHandler(eng *engine.Engine, cacheSvc *cache.Service, cfg *config.Config, logger *logrus.Logger) *CompareHandler {
	return &CompareHandler{
		engine: eng,
		cache:  cacheSvc,
		cfg:    cfg,
		logger: logger,
	}
}

// Compare runs one comparison request. Invalid requests are rejected before
// any computation or cache access.
func (h *CompareHandler) Compare(c *gin.Context) {
	var req engine.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Normalize(); err != nil {
		utils.SendValidationError(c, "Invalid comparison request", err.Error())
		return
	}

	d, err := h.engine.Domain(req.Domain)
	if err != nil {
		utils.SendValidationError(c, "Unknown domain", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.FetchTimeout)
	defer cancel()

	key := req.CacheKey(d.Weights.Version)
	lookup, err := h.cache.GetOrCompute(ctx, key, func(ctx context.Context) (interface{}, error) {
		return h.engine.Compare(ctx, &req)
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

// Domains lists the registered domains with their scoring weight tables.
func (h *CompareHandler) Domains(c *gin.Context) {
	names := h.engine.DomainNames()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		d, err := h.engine.Domain(name)
		if err != nil {
			continue
		}
		out = append(out, gin.H{
			"name":    name,
			"weights": d.Weights,
		})
	}
	utils.SendSuccess(c, gin.H{"domains": out})
}

// respondEngineError maps engine errors onto the API error envelope so the
// caller can distinguish retryable upstream failures from caller faults.
func respondEngineError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest):
		utils.SendValidationError(c, "Invalid request", err.Error())
	case errors.Is(err, engine.ErrUpstreamFetch):
		logger.WithError(err).Error("Result fetch failed with no stale fallback")
		utils.SendUpstreamError(c, "Result store unavailable")
	default:
		logger.WithError(err).Error("Engine computation failed")
		utils.SendInternalError(c, "Failed to compute result")
	}
}
