package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDomain is a minimal placement policy used across the engine unit tests:
// finish position is the finish value, placement score is 1 - fv/80.
func testDomain() *Domain {
	return &Domain{
		Name:       "test",
		CutPenalty: DefaultCutPenalty,
		FinishValue: func(r ResultRecord) float64 {
			if r.MissedCut || r.FinishPosition <= 0 {
				return DefaultCutPenalty
			}
			return float64(r.FinishPosition)
		},
		PlacementScore: func(r ResultRecord) float64 {
			if r.MissedCut || r.FinishPosition <= 0 {
				return 0
			}
			return 1 - float64(r.FinishPosition)/DefaultCutPenalty
		},
		SegmentKey: func(r ResultRecord) string { return r.Segment },
		Winner:     func(r ResultRecord) bool { return r.FinishPosition == 1 && !r.MissedCut },
		Dominant:   func(r ResultRecord) bool { return !r.MissedCut && r.FinishPosition > 0 },
		Close:      func(r ResultRecord) bool { return !r.MissedCut && r.FinishPosition >= 50 },
		Weights: WeightConfig{
			Version: "test-v1",
			Metrics: []MetricSpec{
				{Name: MetricForm, Weight: 0.35},
				{Name: MetricSegmentFit, Weight: 0.20, Invert: true},
				{Name: MetricHeadToHead, Weight: 0.25},
				{Name: MetricRanking, Weight: 0.20, Invert: true},
				{Name: MetricEventHistory, Weight: 0.05, Bonus: true},
			},
		},
		Tiers: []OutcomeTier{
			{Label: "1-10", Lo: 1, Hi: 10},
			{Label: "11+", Lo: 11, Hi: DefaultCutPenalty - 1},
			{Label: "cut", Cut: true},
		},
		Summaries: []SummarySpec{
			{Label: "top_10", UpperBound: 10},
		},
	}
}

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func placementRecord(participant, event string, date time.Time, position int) ResultRecord {
	return ResultRecord{
		ParticipantID:  participant,
		EventID:        event,
		EventDate:      date,
		FinishPosition: position,
	}
}

func TestBuildHistoryFiltersAndSortsByDate(t *testing.T) {
	d := testDomain()
	records := []ResultRecord{
		placementRecord("a", "e3", day(3), 5),
		placementRecord("b", "e1", day(1), 2),
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 3),
	}

	h := d.BuildHistory(records, "a", 0, "")

	require.Len(t, h.Records, 3)
	assert.Equal(t, "e1", h.Records[0].EventID)
	assert.Equal(t, "e2", h.Records[1].EventID)
	assert.Equal(t, "e3", h.Records[2].EventID)
}

func TestBuildHistoryTruncatesToMostRecent(t *testing.T) {
	d := testDomain()
	records := []ResultRecord{
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 2),
		placementRecord("a", "e3", day(3), 3),
		placementRecord("a", "e4", day(4), 4),
	}

	h := d.BuildHistory(records, "a", 2, "")

	require.Len(t, h.Records, 2)
	assert.Equal(t, "e3", h.Records[0].EventID)
	assert.Equal(t, "e4", h.Records[1].EventID)
}

func TestBuildHistorySegmentFilter(t *testing.T) {
	d := testDomain()
	records := []ResultRecord{
		{ParticipantID: "a", EventID: "e1", EventDate: day(1), Segment: "clay", FinishPosition: 1},
		{ParticipantID: "a", EventID: "e2", EventDate: day(2), Segment: "hard", FinishPosition: 2},
		{ParticipantID: "a", EventID: "e3", EventDate: day(3), Segment: "clay", FinishPosition: 3},
	}

	h := d.BuildHistory(records, "a", 0, "clay")

	require.Len(t, h.Records, 2)
	for _, r := range h.Records {
		assert.Equal(t, "clay", r.Segment)
	}
}

func TestComputeFormBelowMinEvents(t *testing.T) {
	d := testDomain()
	h := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 2),
	}}

	m, err := d.ComputeForm(h, 3)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = d.ComputeForm(EntityHistory{ParticipantID: "a"}, 1)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestComputeFormRates(t *testing.T) {
	d := testDomain()
	h := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 60),
		{ParticipantID: "a", EventID: "e3", EventDate: day(3), MissedCut: true},
		placementRecord("a", "e4", day(4), 4),
	}}

	m, err := d.ComputeForm(h, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Events)
	assert.InDelta(t, 0.25, m.WinRate, 1e-9)       // one outright win
	assert.InDelta(t, 0.75, m.DominanceRate, 1e-9) // three made cuts
	assert.InDelta(t, 0.25, m.CloseRate, 1e-9)     // one back-of-field finish
	assert.InDelta(t, (1+60+80+4)/4.0, m.AvgFinish, 1e-9)
	assert.Len(t, m.FinishValues, 4)
}

func TestComputeFormRecencyWeighting(t *testing.T) {
	d := testDomain()

	// Same multiset of finishes, opposite order. Recent wins must score
	// higher than early wins.
	improving := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 60),
		placementRecord("a", "e2", day(2), 30),
		placementRecord("a", "e3", day(3), 1),
	}}
	fading := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 30),
		placementRecord("a", "e3", day(3), 60),
	}}

	mi, err := d.ComputeForm(improving, 3)
	require.NoError(t, err)
	mf, err := d.ComputeForm(fading, 3)
	require.NoError(t, err)

	assert.Greater(t, mi.FormScore, mf.FormScore)
}

func TestComputeFormScoreClamped(t *testing.T) {
	d := testDomain()
	h := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 1),
		placementRecord("a", "e2", day(2), 1),
		placementRecord("a", "e3", day(3), 1),
	}}

	m, err := d.ComputeForm(h, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.FormScore, 0.0)
	assert.LessOrEqual(t, m.FormScore, 1.0)
}

func TestComputeFormVolatility(t *testing.T) {
	d := testDomain()

	steady := EntityHistory{ParticipantID: "a", Records: []ResultRecord{
		placementRecord("a", "e1", day(1), 10),
		placementRecord("a", "e2", day(2), 10),
		placementRecord("a", "e3", day(3), 10),
	}}
	erratic := EntityHistory{ParticipantID: "b", Records: []ResultRecord{
		placementRecord("b", "e1", day(1), 1),
		placementRecord("b", "e2", day(2), 70),
		placementRecord("b", "e3", day(3), 5),
	}}

	ms, err := d.ComputeForm(steady, 3)
	require.NoError(t, err)
	me, err := d.ComputeForm(erratic, 3)
	require.NoError(t, err)

	// Zero spread maps to the volatility ceiling of 1.
	assert.InDelta(t, 1.0, ms.Volatility, 1e-9)
	assert.Less(t, me.Volatility, ms.Volatility)
}
