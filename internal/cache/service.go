package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/tourmetrics/matchup-engine/internal/engine"
)

// Lookup source labels exposed in response metadata.
const (
	SourceLocal    = "local"
	SourceDurable  = "durable"
	SourceComputed = "computed"
	SourceStale    = "stale"
)

// Lookup is the outcome of one read-through cache access.
type Lookup struct {
	Payload    json.RawMessage
	Source     string
	ComputedAt time.Time
	// Degraded marks a stale payload served because the upstream fetch
	// failed.
	Degraded bool
}

// Service is the read-through cache wrapping the comparison pipeline: a
// short-TTL in-process tier backed by an optional longer-TTL durable tier,
// with per-key in-flight deduplication so concurrent misses for the same key
// share one recompute instead of duplicating upstream fetches.
type Service struct {
	local      *LocalStore
	durable    *RedisStore
	group      singleflight.Group
	ttl        time.Duration
	durableTTL time.Duration
	logger     *logrus.Logger
}

// NewService creates the cache service. durable may be nil for local-only
// operation.
func NewService(local *LocalStore, durable *RedisStore, ttl, durableTTL time.Duration, logger *logrus.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if durableTTL <= 0 {
		durableTTL = time.Hour
	}
	return &Service{
		local:      local,
		durable:    durable,
		ttl:        ttl,
		durableTTL: durableTTL,
		logger:     logger,
	}
}

// GetOrCompute returns the cached payload for a key, recomputing on a miss or
// stale entry. Concurrent callers for the same key await a single shared
// computation. When compute fails with an upstream fetch error and a stale
// entry exists, the stale payload is served marked degraded.
func (s *Service) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (interface{}, error)) (*Lookup, error) {
	result, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.lookup(ctx, key, compute)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.WithField("key", key).Debug("Shared in-flight cache computation")
	}
	return result.(*Lookup), nil
}

func (s *Service) lookup(ctx context.Context, key string, compute func(context.Context) (interface{}, error)) (*Lookup, error) {
	now := time.Now().UTC()

	var stale *Entry
	if entry := s.local.Get(key); entry != nil {
		if entry.Fresh(now) {
			return &Lookup{Payload: entry.Payload, Source: SourceLocal, ComputedAt: entry.ComputedAt}, nil
		}
		stale = entry
	}

	if s.durable != nil {
		entry, err := s.durable.Get(ctx, key)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Durable cache read failed")
		} else if entry != nil {
			if entry.Fresh(now) {
				s.promote(entry, now)
				return &Lookup{Payload: entry.Payload, Source: SourceDurable, ComputedAt: entry.ComputedAt}, nil
			}
			if stale == nil {
				stale = entry
			}
		}
	}

	value, err := compute(ctx)
	if err != nil {
		if stale != nil && errors.Is(err, engine.ErrUpstreamFetch) {
			s.logger.WithError(err).WithField("key", key).Warn("Upstream fetch failed, serving stale cache entry")
			return &Lookup{
				Payload:    stale.Payload,
				Source:     SourceStale,
				ComputedAt: stale.ComputedAt,
				Degraded:   true,
			}, nil
		}
		return nil, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache payload: %w", err)
	}

	computedAt := time.Now().UTC()
	s.local.Set(&Entry{
		Key:        key,
		Payload:    payload,
		ComputedAt: computedAt,
		ExpiresAt:  computedAt.Add(s.ttl),
	})
	if s.durable != nil {
		entry := &Entry{
			Key:        key,
			Payload:    payload,
			ComputedAt: computedAt,
			ExpiresAt:  computedAt.Add(s.durableTTL),
		}
		if err := s.durable.Set(ctx, entry); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Durable cache write failed")
		}
	}

	return &Lookup{Payload: payload, Source: SourceComputed, ComputedAt: computedAt}, nil
}

// promote copies a durable hit into the local tier under the local TTL.
func (s *Service) promote(entry *Entry, now time.Time) {
	s.local.Set(&Entry{
		Key:        entry.Key,
		Payload:    entry.Payload,
		ComputedAt: entry.ComputedAt,
		ExpiresAt:  now.Add(s.ttl),
	})
}

// Invalidate removes a key from both tiers.
func (s *Service) Invalidate(ctx context.Context, keys ...string) error {
	s.local.Invalidate(keys...)
	if s.durable != nil {
		return s.durable.Invalidate(ctx, keys...)
	}
	return nil
}

// SweepLocal drops local entries past their stale grace window. Wired to the
// background janitor.
func (s *Service) SweepLocal() {
	swept := s.local.Sweep(time.Now().UTC())
	if swept > 0 {
		s.logger.WithFields(logrus.Fields{
			"swept":     swept,
			"remaining": s.local.Len(),
		}).Info("Local cache sweep completed")
	}
}
