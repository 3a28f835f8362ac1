package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Repository supplies the flat result-record list for a domain and time
// window. The adapter behind it owns pagination and retry; a single call
// either fully succeeds or returns an error.
type Repository interface {
	FetchResults(ctx context.Context, domain string, seasons []int) ([]ResultRecord, error)
}

// Options tunes the engine's window defaults.
type Options struct {
	// MinEvents is the qualifying-record floor below which a participant's
	// metric is excluded from scoring entirely.
	MinEvents int
	// DefaultLastN is the rolling window applied when a request does not
	// specify one.
	DefaultLastN int
}

// Engine runs the full comparison and simulation pipeline for every
// registered domain. All computation is pure and in-memory; the repository
// fetch is the only blocking step.
type Engine struct {
	repo    Repository
	domains map[string]*Domain
	opts    Options
	logger  *logrus.Logger
}

// New creates an engine over the given result repository.
func New(repo Repository, opts Options, logger *logrus.Logger) *Engine {
	if opts.MinEvents <= 0 {
		opts.MinEvents = 3
	}
	if opts.DefaultLastN <= 0 {
		opts.DefaultLastN = 20
	}
	return &Engine{
		repo:    repo,
		domains: make(map[string]*Domain),
		opts:    opts,
		logger:  logger,
	}
}

// Register adds a domain policy under its name.
func (e *Engine) Register(d *Domain) {
	e.domains[d.Name] = d
}

// DomainNames lists the registered domains, sorted.
func (e *Engine) DomainNames() []string {
	names := make([]string, 0, len(e.domains))
	for name := range e.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Domain returns the registered policy for a domain name.
func (e *Engine) Domain(name string) (*Domain, error) {
	d, ok := e.domains[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown domain %q", ErrInvalidRequest, name)
	}
	return d, nil
}

// Compare runs the full pipeline for one comparison request: fetch, per
// participant aggregation, head-to-head, normalization and composite
// scoring. Per-participant data problems are absorbed as missing metrics;
// only upstream failures and invalid requests surface as errors.
func (e *Engine) Compare(ctx context.Context, req *ComparisonRequest) (*ComparisonResult, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	d, err := e.Domain(req.Domain)
	if err != nil {
		return nil, err
	}

	records, err := e.repo.FetchResults(ctx, req.Domain, req.Seasons)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}

	lastN := req.LastN
	if lastN <= 0 {
		lastN = e.opts.DefaultLastN
	}

	ids := req.ParticipantIDs
	raw := map[string]map[string]*float64{
		MetricForm: make(map[string]*float64, len(ids)),
	}
	if req.Segment != "" {
		raw[MetricSegmentFit] = make(map[string]*float64, len(ids))
		raw[MetricEventHistory] = make(map[string]*float64, len(ids))
	}
	if len(req.Rankings) > 0 {
		raw[MetricRanking] = make(map[string]*float64, len(ids))
	}

	segments := make(map[string][]SegmentStats, len(ids))
	for _, id := range ids {
		history := d.BuildHistory(records, id, lastN, "")
		segments[id] = d.SplitSegments(history, e.opts.MinEvents)
		form, err := d.ComputeForm(history, e.opts.MinEvents)
		if err != nil {
			// Thin history is absorbed as a missing metric, never a
			// request failure.
			e.logger.WithError(err).WithFields(logrus.Fields{
				"domain":      req.Domain,
				"participant": id,
			}).Debug("Participant excluded from form scoring")
			raw[MetricForm][id] = nil
		} else {
			raw[MetricForm][id] = ptr(form.FormScore)
		}

		if req.Segment != "" {
			segHistory := d.BuildHistory(records, id, lastN, req.Segment)
			stats, err := d.ComputeForm(segHistory, e.opts.MinEvents)
			if err != nil {
				raw[MetricSegmentFit][id] = nil
				raw[MetricEventHistory][id] = nil
			} else {
				raw[MetricSegmentFit][id] = ptr(stats.AvgFinish)
				raw[MetricEventHistory][id] = ptr(topTenRate(stats.FinishValues))
			}
		}

		if len(req.Rankings) > 0 {
			if rank, ok := req.Rankings[id]; ok {
				raw[MetricRanking][id] = ptr(rank)
			} else {
				raw[MetricRanking][id] = nil
			}
		}
	}

	var h2h *HeadToHead
	if len(ids) == 2 {
		record := d.ComputeHeadToHead(records, ids[0], ids[1])
		h2h = &record
		values := make(map[string]*float64, 2)
		if record.Meetings > 0 {
			values[ids[0]] = ptr(record.WinRateA)
			values[ids[1]] = ptr(float64(record.WinsB) / float64(record.Meetings))
		} else {
			values[ids[0]] = nil
			values[ids[1]] = nil
		}
		raw[MetricHeadToHead] = values
	}

	players, rec, weights := d.Weights.Score(ids, raw)
	for i := range players {
		players[i].Segments = segments[players[i].ParticipantID]
	}

	return &ComparisonResult{
		Domain:         req.Domain,
		ParticipantIDs: ids,
		Weights:        weights,
		Players:        players,
		HeadToHead:     h2h,
		Recommendation: rec,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

// Simulate runs the outcome simulator for one participant over its recent
// finish values.
func (e *Engine) Simulate(ctx context.Context, req *SimulationRequest) (*SimulationResult, error) {
	if req.ParticipantID == "" {
		return nil, fmt.Errorf("%w: participant_id is required", ErrInvalidRequest)
	}
	d, err := e.Domain(req.Domain)
	if err != nil {
		return nil, err
	}

	records, err := e.repo.FetchResults(ctx, req.Domain, req.Seasons)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}

	lastN := req.LastN
	if lastN <= 0 {
		lastN = e.opts.DefaultLastN
	}

	history := d.BuildHistory(records, req.ParticipantID, lastN, "")
	finishes := make([]float64, 0, len(history.Records))
	for _, r := range history.Records {
		finishes = append(finishes, d.FinishValue(r))
	}

	result := d.Simulate(req.ParticipantID, finishes, req.Simulations)
	return &result, nil
}

// topTenRate is the fraction of finish values at or inside the top 10, the
// additive event-history bonus input.
func topTenRate(finishValues []float64) float64 {
	if len(finishValues) == 0 {
		return 0
	}
	hits := 0
	for _, fv := range finishValues {
		if fv <= 10 {
			hits++
		}
	}
	return float64(hits) / float64(len(finishValues))
}

func ptr(v float64) *float64 {
	return &v
}
