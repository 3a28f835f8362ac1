package engine

// NeutralDefault is the normalized value assigned to missing metrics and to
// degenerate groups where min-max scaling is undefined. A participant is
// never penalized purely for missing data relative to peers who have data.
const NeutralDefault = 0.5

// Normalize rescales one metric's raw values onto [0,1] across the comparison
// group using linear min-max scaling. Nil inputs always map to the neutral
// default regardless of peer values. If all non-nil values are equal every
// non-nil participant gets the neutral default as well, which avoids a
// divide by zero and avoids spuriously rewarding a single data point. With
// invert set, output is 1 - scaled, for lower-is-better metrics.
func Normalize(values map[string]*float64, invert bool) map[string]float64 {
	out := make(map[string]float64, len(values))

	var min, max float64
	seen := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if !seen {
			min, max = *v, *v
			seen = true
			continue
		}
		if *v < min {
			min = *v
		}
		if *v > max {
			max = *v
		}
	}

	for id, v := range values {
		if v == nil || !seen || min == max {
			out[id] = NeutralDefault
			continue
		}
		scaled := (*v - min) / (max - min)
		if invert {
			scaled = 1 - scaled
		}
		out[id] = scaled
	}
	return out
}
