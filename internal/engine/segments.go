package engine

import "sort"

// SplitSegments re-groups a history by the domain's segment key and computes
// per-bucket rate metrics. Buckets with fewer than minEvents records are
// dropped. Output is sorted by descending placement rate for presentation;
// callers must not rely on the order for correctness.
func (d *Domain) SplitSegments(h EntityHistory, minEvents int) []SegmentStats {
	buckets := make(map[string][]ResultRecord)
	for _, r := range h.Records {
		key := d.SegmentKey(r)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], r)
	}

	stats := make([]SegmentStats, 0, len(buckets))
	for key, records := range buckets {
		if len(records) < minEvents {
			continue
		}
		stats = append(stats, d.segmentStats(key, records))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].PlacementRate > stats[j].PlacementRate
	})
	return stats
}

func (d *Domain) segmentStats(key string, records []ResultRecord) SegmentStats {
	s := SegmentStats{Segment: key, Events: len(records)}

	var placement float64
	finishes := make([]float64, 0, len(records))
	var wins, dominant int
	for _, r := range records {
		finishes = append(finishes, d.FinishValue(r))
		placement += d.PlacementScore(r)
		if d.Winner(r) {
			wins++
		}
		if d.Dominant(r) {
			dominant++
		}
	}

	n := float64(len(records))
	s.Wins = wins
	s.Losses = len(records) - wins
	s.WinRate = float64(wins) / n
	s.PlacementRate = placement / n
	s.DominanceRate = float64(dominant) / n
	s.AvgFinish = mean(finishes)
	return s
}
