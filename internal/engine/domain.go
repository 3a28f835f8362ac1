package engine

// DefaultCutPenalty is the finish-value sentinel substituted for a missed
// cut, retirement or withdrawal so it always ranks worse than any numeric
// finish.
const DefaultCutPenalty = 80.0

// Metric names shared across domains.
const (
	MetricForm         = "form"
	MetricSegmentFit   = "segment_fit"
	MetricHeadToHead   = "head_to_head"
	MetricRanking      = "ranking"
	MetricEventHistory = "event_history"
)

// OutcomeTier is one finish-value bucket of a simulation distribution.
// Lo and Hi are inclusive bounds; a tier with Cut set collects the
// cut-penalty sentinel instead of a numeric range.
type OutcomeTier struct {
	Label string
	Lo    float64
	Hi    float64
	Cut   bool
}

// SummarySpec describes one cumulative probability exposed by the simulator:
// the probability of a finish value at or below UpperBound.
type SummarySpec struct {
	Label      string
	UpperBound float64
}

// Domain carries the sport-specific policy the generic engine is
// parameterized by: how a raw result maps to a comparable finish value, how
// records bucket into segments, and how metrics weigh into the composite
// score. Everything else is shared.
type Domain struct {
	Name       string
	CutPenalty float64

	// FinishValue maps a record to a comparable number, lower is better.
	// Non-numeric outcomes map to CutPenalty.
	FinishValue func(r ResultRecord) float64

	// PlacementScore maps a record onto [0,1], higher is better. Feeds the
	// recency-weighted component of the form score.
	PlacementScore func(r ResultRecord) float64

	// SegmentKey extracts the situational bucket value (surface, course id).
	SegmentKey func(r ResultRecord) string

	// Winner reports whether the record is an outright win of its event.
	Winner func(r ResultRecord) bool

	// Dominant reports the domain's dominance signal: a straight-set win for
	// pairwise sports, a made cut for placement sports.
	Dominant func(r ResultRecord) bool

	// Close reports the domain's close-finish signal, which penalizes the
	// form score.
	Close func(r ResultRecord) bool

	Weights   WeightConfig
	Tiers     []OutcomeTier
	Summaries []SummarySpec
}

// Fixed blend of the form score components. The blended value is clamped to
// [0,1] before normalization across the comparison group.
const (
	formRecencyWeight   = 0.60
	formDominanceWeight = 0.25
	formClosePenalty    = 0.15
)

func (d *Domain) cutPenalty() float64 {
	if d.CutPenalty > 0 {
		return d.CutPenalty
	}
	return DefaultCutPenalty
}
