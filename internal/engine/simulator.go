package engine

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSimulations is the resampling draw count used when a request does
// not specify one.
const DefaultSimulations = 2000

// Simulate resamples with replacement from a participant's empirical
// finish-value list and buckets the draws into the domain's outcome tiers.
//
// The generator is seeded from the participant id and the window size rather
// than wall-clock time, so repeated calls with identical inputs produce
// bit-identical results. A participant with zero qualifying history gets a
// zero-simulation result, not an error.
func (d *Domain) Simulate(participantID string, finishValues []float64, count int) SimulationResult {
	if count <= 0 {
		count = DefaultSimulations
	}

	res := SimulationResult{
		ParticipantID: participantID,
		Distribution:  make([]TierProbability, len(d.Tiers)),
		Summary:       make(map[string]float64, len(d.Summaries)),
	}
	for i, tier := range d.Tiers {
		res.Distribution[i] = TierProbability{Label: tier.Label}
	}
	for _, s := range d.Summaries {
		res.Summary[s.Label] = 0
	}
	if len(finishValues) == 0 {
		return res
	}

	rng := rand.New(rand.NewSource(simulationSeed(participantID, len(finishValues))))

	counts := make([]int, len(d.Tiers))
	for i := 0; i < count; i++ {
		fv := finishValues[rng.Intn(len(finishValues))]
		if idx := d.tierIndex(fv); idx >= 0 {
			counts[idx]++
		}
	}

	res.Simulations = count
	for i := range d.Tiers {
		res.Distribution[i].Count = counts[i]
		res.Distribution[i].Probability = float64(counts[i]) / float64(count)
	}
	for _, s := range d.Summaries {
		res.Summary[s.Label] = d.cumulative(counts, count, s.UpperBound)
	}
	return res
}

func (d *Domain) tierIndex(fv float64) int {
	cut := fv >= d.cutPenalty()
	for i, tier := range d.Tiers {
		if tier.Cut {
			if cut {
				return i
			}
			continue
		}
		if cut {
			continue
		}
		if fv >= tier.Lo && fv <= tier.Hi {
			return i
		}
	}
	return -1
}

// cumulative sums the probabilities of all tiers whose upper bound is at or
// below the summary bound. The cut bucket never counts toward a summary.
func (d *Domain) cumulative(counts []int, total int, upperBound float64) float64 {
	hits := 0
	for i, tier := range d.Tiers {
		if tier.Cut || tier.Hi > upperBound {
			continue
		}
		hits += counts[i]
	}
	return float64(hits) / float64(total)
}

func simulationSeed(participantID string, windowSize int) int64 {
	h := fnv.New64a()
	h.Write([]byte(participantID))
	return int64(h.Sum64()>>1) + int64(windowSize)
}
