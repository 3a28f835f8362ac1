package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateProbabilitiesSumToOne(t *testing.T) {
	d := testDomain()
	finishes := []float64{1, 4, 12, 30, DefaultCutPenalty}

	res := d.Simulate("a", finishes, 5000)

	assert.Equal(t, 5000, res.Simulations)
	total := 0.0
	count := 0
	for _, tier := range res.Distribution {
		total += tier.Probability
		count += tier.Count
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, 5000, count)
}

func TestSimulateDeterministic(t *testing.T) {
	d := testDomain()
	finishes := []float64{1, 4, 12, 30, DefaultCutPenalty}

	first := d.Simulate("a", finishes, 2000)
	second := d.Simulate("a", finishes, 2000)

	// Identical inputs produce bit-identical output, not merely close.
	assert.Equal(t, first, second)
}

func TestSimulateSeedVariesByParticipant(t *testing.T) {
	d := testDomain()
	finishes := []float64{1, 4, 12, 30, 55, DefaultCutPenalty}

	resA := d.Simulate("a", finishes, 2000)
	resB := d.Simulate("b", finishes, 2000)

	assert.NotEqual(t, resA.Distribution, resB.Distribution)
}

func TestSimulateZeroHistory(t *testing.T) {
	d := testDomain()

	res := d.Simulate("a", nil, 2000)

	assert.Equal(t, 0, res.Simulations)
	require.Len(t, res.Distribution, len(d.Tiers))
	for _, tier := range res.Distribution {
		assert.Equal(t, 0, tier.Count)
		assert.Equal(t, 0.0, tier.Probability)
	}
	assert.Equal(t, 0.0, res.Summary["top_10"])
}

func TestSimulateCutBucket(t *testing.T) {
	d := testDomain()

	// Every draw is the cut sentinel.
	res := d.Simulate("a", []float64{DefaultCutPenalty}, 1000)

	var cut TierProbability
	for _, tier := range res.Distribution {
		if tier.Label == "cut" {
			cut = tier
		}
	}
	assert.Equal(t, 1000, cut.Count)
	assert.InDelta(t, 1.0, cut.Probability, 1e-9)

	// The cut bucket never counts toward a cumulative summary.
	assert.Equal(t, 0.0, res.Summary["top_10"])
}

func TestSimulateSummaryCumulative(t *testing.T) {
	d := testDomain()

	// All draws land in 1-10, so top_10 is certain.
	res := d.Simulate("a", []float64{1, 5, 10}, 1000)

	assert.InDelta(t, 1.0, res.Summary["top_10"], 1e-9)
}

func TestSimulateDefaultCount(t *testing.T) {
	d := testDomain()

	res := d.Simulate("a", []float64{3}, 0)
	assert.Equal(t, DefaultSimulations, res.Simulations)
}
