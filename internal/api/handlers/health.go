package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tourmetrics/matchup-engine/internal/repository"
)

// HealthHandler reports service liveness plus the result-store breaker
// state.
type HealthHandler struct {
	breaker *repository.BreakerRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(breaker *repository.BreakerRepository) *HealthHandler {
	return &HealthHandler{breaker: breaker}
}

// Health returns service status.
func (h *HealthHandler) Health(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	}
	if h.breaker != nil {
		status["result_store_breaker"] = h.breaker.State().String()
	}
	c.JSON(http.StatusOK, status)
}
