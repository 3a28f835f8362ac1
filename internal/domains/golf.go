package domains

import (
	"github.com/tourmetrics/matchup-engine/internal/engine"
)

// Golf builds the golf-tour policy: placement finishes joined by tournament,
// course segments, made-cut dominance and an additive course-history bonus.
func Golf() *engine.Domain {
	return &engine.Domain{
		Name:       "golf",
		CutPenalty: engine.DefaultCutPenalty,
		FinishValue: func(r engine.ResultRecord) float64 {
			if r.MissedCut || r.FinishPosition <= 0 {
				return engine.DefaultCutPenalty
			}
			return float64(r.FinishPosition)
		},
		PlacementScore: func(r engine.ResultRecord) float64 {
			if r.MissedCut || r.FinishPosition <= 0 {
				return 0
			}
			fv := float64(r.FinishPosition)
			if fv > engine.DefaultCutPenalty {
				fv = engine.DefaultCutPenalty
			}
			return 1 - fv/engine.DefaultCutPenalty
		},
		SegmentKey: func(r engine.ResultRecord) string {
			return r.Segment // course id
		},
		Winner: func(r engine.ResultRecord) bool {
			return !r.MissedCut && r.FinishPosition == 1
		},
		Dominant: func(r engine.ResultRecord) bool {
			return !r.MissedCut && r.FinishPosition > 0
		},
		Close: func(r engine.ResultRecord) bool {
			// A made cut followed by a back-of-field weekend.
			return !r.MissedCut && r.FinishPosition >= 50
		},
		Weights: engine.WeightConfig{
			Version: "golf-v1",
			Metrics: []engine.MetricSpec{
				{Name: engine.MetricForm, Weight: 0.35},
				{Name: engine.MetricSegmentFit, Weight: 0.25, Invert: true},
				{Name: engine.MetricHeadToHead, Weight: 0.15},
				{Name: engine.MetricRanking, Weight: 0.25, Invert: true},
				{Name: engine.MetricEventHistory, Weight: 0.05, Bonus: true},
			},
		},
		Tiers: []engine.OutcomeTier{
			{Label: "1-5", Lo: 1, Hi: 5},
			{Label: "6-10", Lo: 6, Hi: 10},
			{Label: "11-20", Lo: 11, Hi: 20},
			{Label: "21-30", Lo: 21, Hi: 30},
			{Label: "31+", Lo: 31, Hi: engine.DefaultCutPenalty - 1},
			{Label: "missed_cut", Cut: true},
		},
		Summaries: []engine.SummarySpec{
			{Label: "top_5", UpperBound: 5},
			{Label: "top_10", UpperBound: 10},
			{Label: "top_20", UpperBound: 20},
		},
	}
}

// All returns every built-in domain policy.
func All() []*engine.Domain {
	return []*engine.Domain{Tennis(), Golf()}
}
