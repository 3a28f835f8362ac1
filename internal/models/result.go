package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// MatchResult is one completed contest entry for one participant as stored
// in the historical result store. Immutable once written by the ingestion
// pipeline; the engine treats these rows as read-only input.
type MatchResult struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Domain        string    `gorm:"not null;index:idx_domain_season,priority:1" json:"domain"`
	ParticipantID string    `gorm:"not null;index" json:"participant_id"`
	OpponentID    string    `json:"opponent_id,omitempty"`
	EventID       string    `gorm:"not null;index" json:"event_id"`
	EventDate     time.Time `gorm:"not null;index" json:"event_date"`
	Season        int       `gorm:"not null;index:idx_domain_season,priority:2" json:"season"`
	Segment       string    `gorm:"index" json:"segment"`
	Round         string    `json:"round,omitempty"`

	// Placement domains
	FinishPosition int  `json:"finish_position,omitempty"`
	MissedCut      bool `json:"missed_cut,omitempty"`

	// Pairwise domains
	Won          bool `json:"won,omitempty"`
	StraightSets bool `json:"straight_sets,omitempty"`
	Tiebreaks    int  `json:"tiebreaks,omitempty"`

	// OutcomeDetail carries the raw outcome payload (set scores or
	// par-relative rounds) as written by the ingestion pipeline.
	OutcomeDetail datatypes.JSON `gorm:"type:jsonb" json:"outcome_detail,omitempty"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MatchResult) TableName() string {
	return "match_results"
}
