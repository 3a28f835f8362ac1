package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/tourmetrics/matchup-engine/internal/engine"
)

// BreakerRepository wraps a result repository with circuit breaker
// protection so a failing result store trips fast instead of stacking
// timed-out fetches. An open breaker rejects immediately, which the cache
// layer turns into a stale-serve where possible.
type BreakerRepository struct {
	inner   engine.Repository
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerRepository wraps the inner repository. threshold is the
// consecutive-failure trip point, timeout the open-state cool-down.
func NewBreakerRepository(inner engine.Repository, threshold int, timeout time.Duration, logger *logrus.Logger) *BreakerRepository {
	settings := gobreaker.Settings{
		Name:        "result-store",
		MaxRequests: uint32(threshold),
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &BreakerRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// FetchResults executes the inner fetch under the breaker.
func (r *BreakerRepository) FetchResults(ctx context.Context, domain string, seasons []int) ([]engine.ResultRecord, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.FetchResults(ctx, domain, seasons)
	})
	if err != nil {
		return nil, err
	}
	return result.([]engine.ResultRecord), nil
}

// State exposes the breaker state for health reporting.
func (r *BreakerRepository) State() gobreaker.State {
	return r.breaker.State()
}
