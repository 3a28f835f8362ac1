package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tourmetrics/matchup-engine/pkg/utils"
)

// RateLimit caps the request rate on the compute-heavy endpoints. A request
// that cannot take a token immediately is rejected rather than queued, so a
// burst of comparison requests cannot stack simulator work.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.SendTooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
