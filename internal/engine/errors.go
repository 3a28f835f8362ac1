package engine

import "errors"

var (
	// ErrInvalidRequest marks a caller-fault request: wrong participant
	// count, a participant compared with itself, or an unknown domain.
	// Rejected before any computation begins.
	ErrInvalidRequest = errors.New("invalid comparison request")

	// ErrUpstreamFetch marks a failed or timed-out result repository call.
	// The cache layer may fall back to a stale entry on this error.
	ErrUpstreamFetch = errors.New("upstream result fetch failed")

	// ErrInsufficientHistory marks a participant with fewer than the
	// required qualifying records. Absorbed per participant as a missing
	// metric, never surfaced as a request failure.
	ErrInsufficientHistory = errors.New("insufficient history")
)
