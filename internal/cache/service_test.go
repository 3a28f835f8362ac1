package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmetrics/matchup-engine/internal/engine"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(ttl time.Duration) *Service {
	return NewService(NewLocalStore(), nil, ttl, time.Hour, testLogger())
}

type payload struct {
	Value int `json:"value"`
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	svc := newTestService(time.Minute)
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return payload{Value: 42}, nil
	}

	first, err := svc.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, first.Source)
	assert.False(t, first.Degraded)

	second, err := svc.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, second.Source)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "fresh hits must not recompute")

	var p payload
	require.NoError(t, json.Unmarshal(second.Payload, &p))
	assert.Equal(t, 42, p.Value)
}

func TestGetOrComputeDistinctKeys(t *testing.T) {
	svc := newTestService(time.Minute)
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		return payload{Value: int(atomic.AddInt32(&calls, 1))}, nil
	}

	_, err := svc.GetOrCompute(context.Background(), "k1", compute)
	require.NoError(t, err)
	_, err = svc.GetOrCompute(context.Background(), "k2", compute)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrComputeRecomputesAfterExpiry(t *testing.T) {
	// A negative TTL expires entries the moment they are written.
	svc := newTestService(-time.Second)
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return payload{Value: 1}, nil
	}

	for i := 0; i < 2; i++ {
		res, err := svc.GetOrCompute(context.Background(), "k", compute)
		require.NoError(t, err)
		assert.Equal(t, SourceComputed, res.Source)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrComputeStaleFallbackOnUpstreamFailure(t *testing.T) {
	svc := newTestService(-time.Second)

	_, err := svc.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return payload{Value: 7}, nil
	})
	require.NoError(t, err)

	// The entry is already stale; the next compute fails upstream.
	res, err := svc.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return nil, fmt.Errorf("%w: provider down", engine.ErrUpstreamFetch)
	})
	require.NoError(t, err)
	assert.Equal(t, SourceStale, res.Source)
	assert.True(t, res.Degraded)

	var p payload
	require.NoError(t, json.Unmarshal(res.Payload, &p))
	assert.Equal(t, 7, p.Value)
}

func TestGetOrComputeNonUpstreamErrorsPropagate(t *testing.T) {
	svc := newTestService(-time.Second)

	_, err := svc.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return payload{Value: 7}, nil
	})
	require.NoError(t, err)

	// Stale entry exists, but only upstream failures unlock it.
	wantErr := errors.New("bad request")
	_, err = svc.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrComputeNoStaleEntryPropagatesUpstreamError(t *testing.T) {
	svc := newTestService(time.Minute)

	_, err := svc.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return nil, fmt.Errorf("%w: provider down", engine.ErrUpstreamFetch)
	})
	assert.ErrorIs(t, err, engine.ErrUpstreamFetch)
}

func TestGetOrComputeSharesInFlightComputation(t *testing.T) {
	svc := newTestService(time.Minute)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return payload{Value: 1}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]*Lookup, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := svc.GetOrCompute(context.Background(), "k", compute)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent misses for one key share one computation")
	for _, res := range results {
		assert.Equal(t, results[0].Payload, res.Payload)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	svc := newTestService(time.Minute)
	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return payload{Value: 1}, nil
	}

	_, err := svc.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background(), "k"))

	res, err := svc.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, res.Source)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
