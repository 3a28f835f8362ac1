package engine

import (
	"fmt"
	"math"
	"sort"
)

// BuildHistory extracts one participant's records from the full record set,
// ordered ascending by event date, optionally filtered to one segment and
// truncated to the most recent lastN events. lastN <= 0 keeps everything.
func (d *Domain) BuildHistory(records []ResultRecord, participantID string, lastN int, segment string) EntityHistory {
	h := EntityHistory{ParticipantID: participantID}
	for _, r := range records {
		if r.ParticipantID != participantID {
			continue
		}
		if segment != "" && d.SegmentKey(r) != segment {
			continue
		}
		h.Records = append(h.Records, r)
	}

	sort.SliceStable(h.Records, func(i, j int) bool {
		return h.Records[i].EventDate.Before(h.Records[j].EventDate)
	})

	if lastN > 0 && len(h.Records) > lastN {
		h.Records = h.Records[len(h.Records)-lastN:]
	}
	return h
}

// ComputeForm derives rolling-window form metrics from a history. Returns
// ErrInsufficientHistory when the participant has fewer than minEvents
// qualifying records; thin history is a hard filter, not a penalty, and the
// caller absorbs the error as a missing metric.
func (d *Domain) ComputeForm(h EntityHistory, minEvents int) (*FormMetrics, error) {
	n := len(h.Records)
	if n == 0 || n < minEvents {
		return nil, fmt.Errorf("%w: participant %s has %d of %d qualifying events",
			ErrInsufficientHistory, h.ParticipantID, n, minEvents)
	}

	m := &FormMetrics{
		ParticipantID: h.ParticipantID,
		Events:        n,
		FinishValues:  make([]float64, 0, n),
	}

	var wins, dominant, closeFinishes int
	var weightedScore, weightSum float64
	for i, r := range h.Records {
		fv := d.FinishValue(r)
		m.FinishValues = append(m.FinishValues, fv)
		if d.Winner(r) {
			wins++
		}
		if d.Dominant(r) {
			dominant++
		}
		if d.Close(r) {
			closeFinishes++
		}
		// Linearly increasing recency weight, oldest record weighs 1.
		w := float64(i + 1)
		weightedScore += w * d.PlacementScore(r)
		weightSum += w
	}

	fn := float64(n)
	m.WinRate = float64(wins) / fn
	m.DominanceRate = float64(dominant) / fn
	m.CloseRate = float64(closeFinishes) / fn
	m.AvgFinish = mean(m.FinishValues)
	m.Volatility = 1.0 / (1.0 + popStdDev(m.FinishValues))

	form := formRecencyWeight*(weightedScore/weightSum) +
		formDominanceWeight*m.DominanceRate -
		formClosePenalty*m.CloseRate
	m.FormScore = clamp01(form)

	return m, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation, matching the volatility
// definition 1/(1+stddev).
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
