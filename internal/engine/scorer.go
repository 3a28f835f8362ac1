package engine

import (
	"fmt"
	"sort"
)

// Recommendation confidence labels, mapped from the edge between the top two
// composite scores.
const (
	LabelBestEdge    = "Best Edge"
	LabelLean        = "Lean"
	LabelNoClearEdge = "No Clear Edge"
)

// Default thresholds for the recommendation tiers and the per-metric reason
// margin.
const (
	DefaultEdgeStrong   = 0.08
	DefaultEdgeLean     = 0.04
	DefaultReasonMargin = 0.02
	maxReasons          = 2
)

// MetricSpec configures one metric of a weight table.
type MetricSpec struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	// Invert marks lower-is-better metrics (average finish, ranking).
	Invert bool `json:"invert,omitempty"`
	// Bonus metrics add a small additive term on top of the composite score
	// and are excluded from weight renormalization.
	Bonus bool `json:"bonus,omitempty"`
}

// WeightConfig is a named, versioned scoring weight table. Non-bonus weights
// sum to 1.0; when a metric is inapplicable to a request its weight is
// dropped and the rest are renormalized before combination.
type WeightConfig struct {
	Version      string       `json:"version"`
	Metrics      []MetricSpec `json:"metrics"`
	ReasonMargin float64      `json:"reason_margin,omitempty"`
	EdgeStrong   float64      `json:"edge_strong,omitempty"`
	EdgeLean     float64      `json:"edge_lean,omitempty"`
}

func (c WeightConfig) reasonMargin() float64 {
	if c.ReasonMargin > 0 {
		return c.ReasonMargin
	}
	return DefaultReasonMargin
}

func (c WeightConfig) edgeStrong() float64 {
	if c.EdgeStrong > 0 {
		return c.EdgeStrong
	}
	return DefaultEdgeStrong
}

func (c WeightConfig) edgeLean() float64 {
	if c.EdgeLean > 0 {
		return c.EdgeLean
	}
	return DefaultEdgeLean
}

// Score combines raw per-participant metric values into one ranked composite
// score per participant plus a recommendation.
//
// order preserves the request's participant order and is the stable tie-break
// for equal scores. raw maps metric name to participant id to value; a metric
// is applicable when at least one participant carries a non-nil value, and an
// all-nil metric contributes the neutral default to the reported normalized
// values but no weight. The returned weights map holds the effective,
// renormalized weights actually used.
func (c WeightConfig) Score(order []string, raw map[string]map[string]*float64) ([]PlayerScore, *Recommendation, map[string]float64) {
	applicable := make(map[string]bool, len(c.Metrics))
	var applicableSum float64
	for _, spec := range c.Metrics {
		values, ok := raw[spec.Name]
		if !ok {
			continue
		}
		for _, v := range values {
			if v != nil {
				applicable[spec.Name] = true
				break
			}
		}
		if applicable[spec.Name] && !spec.Bonus {
			applicableSum += spec.Weight
		}
	}

	effective := make(map[string]float64, len(applicable))
	normalized := make(map[string]map[string]float64, len(raw))
	for _, spec := range c.Metrics {
		values, ok := raw[spec.Name]
		if !ok {
			continue
		}
		normalized[spec.Name] = Normalize(values, spec.Invert)
		if !applicable[spec.Name] {
			continue
		}
		if spec.Bonus {
			effective[spec.Name] = spec.Weight
		} else if applicableSum > 0 {
			effective[spec.Name] = spec.Weight / applicableSum
		}
	}

	players := make([]PlayerScore, len(order))
	for i, id := range order {
		p := PlayerScore{
			ParticipantID: id,
			Metrics:       make(map[string]*float64),
			Normalized:    make(map[string]float64),
		}
		for _, spec := range c.Metrics {
			values, ok := raw[spec.Name]
			if !ok {
				continue
			}
			p.Metrics[spec.Name] = values[id]
			norm := normalized[spec.Name][id]
			p.Normalized[spec.Name] = norm
			if w, ok := effective[spec.Name]; ok {
				p.Score += w * norm
			}
		}
		players[i] = p
	}

	// Stable sort: equal scores resolve to the participant appearing first
	// in the request order.
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	for i := range players {
		players[i].Rank = i + 1
	}

	rec := c.recommend(players, effective)
	return players, rec, effective
}

func (c WeightConfig) recommend(players []PlayerScore, effective map[string]float64) *Recommendation {
	if len(players) < 2 {
		return nil
	}

	winner, runnerUp := players[0], players[1]
	edge := winner.Score - runnerUp.Score

	label := LabelNoClearEdge
	switch {
	case edge >= c.edgeStrong():
		label = LabelBestEdge
	case edge >= c.edgeLean():
		label = LabelLean
	}

	type lead struct {
		metric string
		margin float64
	}
	leads := make([]lead, 0, len(effective))
	for metric := range effective {
		margin := winner.Normalized[metric] - runnerUp.Normalized[metric]
		if margin >= c.reasonMargin() {
			leads = append(leads, lead{metric: metric, margin: margin})
		}
	}
	sort.SliceStable(leads, func(i, j int) bool {
		if leads[i].margin != leads[j].margin {
			return leads[i].margin > leads[j].margin
		}
		return leads[i].metric < leads[j].metric
	})

	reasons := make([]string, 0, maxReasons)
	for _, l := range leads {
		if len(reasons) == maxReasons {
			break
		}
		reasons = append(reasons, fmt.Sprintf("leads %s by %.2f", l.metric, l.margin))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "composite leader")
	}

	return &Recommendation{
		WinnerID: winner.ParticipantID,
		Label:    label,
		Edge:     edge,
		Reasons:  reasons,
	}
}
