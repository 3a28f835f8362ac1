package engine

import (
	"time"
)

// ResultRecord is one completed contest entry for one participant. Records are
// produced by the result repository and treated as read-only input.
type ResultRecord struct {
	ParticipantID  string    `json:"participant_id"`
	OpponentID     string    `json:"opponent_id,omitempty"`
	EventID        string    `json:"event_id"`
	EventDate      time.Time `json:"event_date"`
	Season         int       `json:"season"`
	Segment        string    `json:"segment"`
	Round          string    `json:"round,omitempty"`
	FinishPosition int       `json:"finish_position,omitempty"`
	Won            bool      `json:"won,omitempty"`
	StraightSets   bool      `json:"straight_sets,omitempty"`
	Tiebreaks      int       `json:"tiebreaks,omitempty"`
	MissedCut      bool      `json:"missed_cut,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}

// EntityHistory is one participant's records, ascending by event date.
type EntityHistory struct {
	ParticipantID string         `json:"participant_id"`
	Records       []ResultRecord `json:"records"`
}

// FormMetrics holds rolling-window performance for one participant.
type FormMetrics struct {
	ParticipantID string    `json:"participant_id"`
	Events        int       `json:"events"`
	WinRate       float64   `json:"win_rate"`
	DominanceRate float64   `json:"dominance_rate"`
	CloseRate     float64   `json:"close_rate"`
	AvgFinish     float64   `json:"avg_finish"`
	Volatility    float64   `json:"volatility"`
	FormScore     float64   `json:"form_score"`
	FinishValues  []float64 `json:"-"`
}

// SegmentStats holds rate metrics for one situational bucket of a
// participant's history.
type SegmentStats struct {
	Segment       string  `json:"segment"`
	Events        int     `json:"events"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PlacementRate float64 `json:"placement_rate"`
	WinRate       float64 `json:"win_rate"`
	DominanceRate float64 `json:"dominance_rate"`
	AvgFinish     float64 `json:"avg_finish"`
}

// HeadToHeadSegment is a per-segment slice of a head-to-head record.
type HeadToHeadSegment struct {
	Segment  string `json:"segment"`
	Meetings int    `json:"meetings"`
	WinsA    int    `json:"wins_a"`
	WinsB    int    `json:"wins_b"`
}

// HeadToHead is the pairwise history between two participants restricted to
// events both contested.
type HeadToHead struct {
	ParticipantA string              `json:"participant_a"`
	ParticipantB string              `json:"participant_b"`
	Meetings     int                 `json:"meetings"`
	WinsA        int                 `json:"wins_a"`
	WinsB        int                 `json:"wins_b"`
	Ties         int                 `json:"ties"`
	WinRateA     float64             `json:"win_rate_a"`
	Segments     []HeadToHeadSegment `json:"segments,omitempty"`
}

// PlayerScore is one participant's entry in a comparison result.
type PlayerScore struct {
	ParticipantID string              `json:"participant_id"`
	Rank          int                 `json:"rank"`
	Score         float64             `json:"score"`
	Metrics       map[string]*float64 `json:"metrics"`
	Normalized    map[string]float64  `json:"normalized"`
	Segments      []SegmentStats      `json:"segments,omitempty"`
}

// Recommendation is the qualitative pick derived from a comparison.
type Recommendation struct {
	WinnerID string   `json:"winner_id"`
	Label    string   `json:"label"`
	Edge     float64  `json:"edge"`
	Reasons  []string `json:"reasons"`
}

// ComparisonResult is the full output of one comparison request.
type ComparisonResult struct {
	Domain         string             `json:"domain"`
	ParticipantIDs []string           `json:"participant_ids"`
	Weights        map[string]float64 `json:"weights"`
	Players        []PlayerScore      `json:"players"`
	HeadToHead     *HeadToHead        `json:"head_to_head,omitempty"`
	Recommendation *Recommendation    `json:"recommendation,omitempty"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// TierProbability is one outcome bucket of a simulation distribution.
type TierProbability struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// SimulationResult is the resampled finish-value distribution for one
// participant.
type SimulationResult struct {
	ParticipantID string             `json:"participant_id"`
	Simulations   int                `json:"simulations"`
	Distribution  []TierProbability  `json:"distribution"`
	Summary       map[string]float64 `json:"summary_probabilities"`
}
