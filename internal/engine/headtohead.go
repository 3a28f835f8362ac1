package engine

import "sort"

// ComputeHeadToHead joins two participants' records by shared event id and
// scores each shared event with the domain's finish-value function, lower is
// better. Returns an explicit zero-filled record, not an error, when the two
// participants never met.
func (d *Domain) ComputeHeadToHead(records []ResultRecord, a, b string) HeadToHead {
	h2h := HeadToHead{ParticipantA: a, ParticipantB: b}
	if a == b {
		return h2h
	}

	byEventA := make(map[string]ResultRecord)
	byEventB := make(map[string]ResultRecord)
	for _, r := range records {
		switch r.ParticipantID {
		case a:
			byEventA[r.EventID] = r
		case b:
			byEventB[r.EventID] = r
		}
	}

	type segmentTally struct {
		meetings, winsA, winsB int
	}
	segments := make(map[string]*segmentTally)

	shared := make([]string, 0)
	for eventID := range byEventA {
		if _, ok := byEventB[eventID]; ok {
			shared = append(shared, eventID)
		}
	}
	sort.Strings(shared)

	for _, eventID := range shared {
		ra, rb := byEventA[eventID], byEventB[eventID]
		fa, fb := d.FinishValue(ra), d.FinishValue(rb)

		h2h.Meetings++
		key := d.SegmentKey(ra)
		tally := segments[key]
		if tally == nil {
			tally = &segmentTally{}
			segments[key] = tally
		}
		tally.meetings++

		switch {
		case fa < fb:
			h2h.WinsA++
			tally.winsA++
		case fb < fa:
			h2h.WinsB++
			tally.winsB++
		default:
			h2h.Ties++
		}
	}

	if h2h.Meetings > 0 {
		h2h.WinRateA = float64(h2h.WinsA) / float64(h2h.Meetings)
	}

	keys := make([]string, 0, len(segments))
	for key := range segments {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		tally := segments[key]
		h2h.Segments = append(h2h.Segments, HeadToHeadSegment{
			Segment:  key,
			Meetings: tally.meetings,
			WinsA:    tally.winsA,
			WinsB:    tally.winsB,
		})
	}

	return h2h
}

// Reversed returns the same record viewed from the other participant's side.
func (h HeadToHead) Reversed() HeadToHead {
	rev := HeadToHead{
		ParticipantA: h.ParticipantB,
		ParticipantB: h.ParticipantA,
		Meetings:     h.Meetings,
		WinsA:        h.WinsB,
		WinsB:        h.WinsA,
		Ties:         h.Ties,
	}
	if rev.Meetings > 0 {
		rev.WinRateA = float64(rev.WinsA) / float64(rev.Meetings)
	}
	for _, s := range h.Segments {
		rev.Segments = append(rev.Segments, HeadToHeadSegment{
			Segment:  s.Segment,
			Meetings: s.Meetings,
			WinsA:    s.WinsB,
			WinsB:    s.WinsA,
		})
	}
	return rev
}
