package domains

import (
	"github.com/tourmetrics/matchup-engine/internal/engine"
)

// Tennis builds the racquet-tour policy: pairwise matches, surface segments,
// straight-set dominance and a tiebreak close-finish penalty.
func Tennis() *engine.Domain {
	return &engine.Domain{
		Name:       "tennis",
		CutPenalty: engine.DefaultCutPenalty,
		FinishValue: func(r engine.ResultRecord) float64 {
			// Retirements and walkovers rank worse than any played match.
			if r.MissedCut {
				return engine.DefaultCutPenalty
			}
			if r.Won {
				return 1
			}
			return 2
		},
		PlacementScore: func(r engine.ResultRecord) float64 {
			if r.Won {
				return 1
			}
			return 0
		},
		SegmentKey: func(r engine.ResultRecord) string {
			return r.Segment // surface
		},
		Winner: func(r engine.ResultRecord) bool {
			return r.Won
		},
		Dominant: func(r engine.ResultRecord) bool {
			return r.Won && r.StraightSets
		},
		Close: func(r engine.ResultRecord) bool {
			return r.Tiebreaks > 0
		},
		Weights: engine.WeightConfig{
			Version: "tennis-v1",
			Metrics: []engine.MetricSpec{
				{Name: engine.MetricForm, Weight: 0.30},
				{Name: engine.MetricSegmentFit, Weight: 0.20, Invert: true},
				{Name: engine.MetricHeadToHead, Weight: 0.25},
				{Name: engine.MetricRanking, Weight: 0.25, Invert: true},
			},
		},
		Tiers: []engine.OutcomeTier{
			{Label: "win", Lo: 1, Hi: 1},
			{Label: "loss", Lo: 2, Hi: 2},
			{Label: "retired", Cut: true},
		},
		Summaries: []engine.SummarySpec{
			{Label: "win", UpperBound: 1},
		},
	}
}
