package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached payload plus its lifecycle timestamps. An entry past
// ExpiresAt is stale: treated as a miss for correctness, but kept around so
// it can be served as a degraded fallback when the upstream fetch fails.
type Entry struct {
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
	ComputedAt time.Time       `json:"computed_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Fresh reports whether the entry is still within its TTL.
func (e *Entry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
