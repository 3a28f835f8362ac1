package engine

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// ComparisonRequest describes one composite comparison between 2 or 3
// participants. Participant order is preserved for tie-breaking but
// duplicates are removed.
type ComparisonRequest struct {
	Domain         string             `json:"domain" binding:"required"`
	ParticipantIDs []string           `json:"participant_ids" binding:"required"`
	Segment        string             `json:"segment,omitempty"`
	LastN          int                `json:"last_n,omitempty"`
	Seasons        []int              `json:"seasons,omitempty"`
	Rankings       map[string]float64 `json:"rankings,omitempty"`
	Simulations    int                `json:"simulations,omitempty"`
}

// SimulationRequest describes one outcome-distribution request for a single
// participant.
type SimulationRequest struct {
	Domain        string `json:"domain" binding:"required"`
	ParticipantID string `json:"participant_id" binding:"required"`
	LastN         int    `json:"last_n,omitempty"`
	Seasons       []int  `json:"seasons,omitempty"`
	Simulations   int    `json:"simulations,omitempty"`
}

// Normalize dedupes participant ids preserving their original order and
// validates the request shape. Returns ErrInvalidRequest for fewer than 2 or
// more than 3 distinct participants.
func (r *ComparisonRequest) Normalize() error {
	seen := make(map[string]bool, len(r.ParticipantIDs))
	ids := make([]string, 0, len(r.ParticipantIDs))
	for _, id := range r.ParticipantIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	r.ParticipantIDs = ids

	if len(ids) < 2 || len(ids) > 3 {
		return fmt.Errorf("%w: expected 2 or 3 distinct participant ids, got %d", ErrInvalidRequest, len(ids))
	}
	return nil
}

// CacheKey builds a deterministic key from the sorted participant-id list
// plus every other request field, so semantically identical requests hit the
// same entry regardless of argument order and semantically different
// requests never collide. weightVersion ties the key to the scoring table in
// effect.
func (r *ComparisonRequest) CacheKey(weightVersion string) string {
	ids := append([]string(nil), r.ParticipantIDs...)
	sort.Strings(ids)

	seasons := make([]string, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		seasons = append(seasons, strconv.Itoa(s))
	}
	sort.Strings(seasons)

	var b strings.Builder
	fmt.Fprintf(&b, "compare:%s:%s", r.Domain, strings.Join(ids, ","))
	fmt.Fprintf(&b, ":seg=%s:n=%d:seasons=%s:w=%s",
		r.Segment, r.LastN, strings.Join(seasons, ","), weightVersion)
	if len(r.Rankings) > 0 {
		fmt.Fprintf(&b, ":rank=%x", hashRankings(r.Rankings))
	}
	return b.String()
}

// CacheKey builds a deterministic key for a simulation request.
func (r *SimulationRequest) CacheKey() string {
	seasons := make([]string, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		seasons = append(seasons, strconv.Itoa(s))
	}
	sort.Strings(seasons)
	return fmt.Sprintf("simulate:%s:%s:n=%d:seasons=%s:sims=%d",
		r.Domain, r.ParticipantID, r.LastN, strings.Join(seasons, ","), r.Simulations)
}

func hashRankings(rankings map[string]float64) uint64 {
	ids := make([]string, 0, len(rankings))
	for id := range rankings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := fnv.New64a()
	for _, id := range ids {
		fmt.Fprintf(h, "%s=%g;", id, rankings[id])
	}
	return h.Sum64()
}
