// Package stats computes aggregate statistics over metric value sequences.
// Pure functions, no I/O.
package stats

// Summary holds min/max/mean/count for a value sequence. The stat fields are
// nil when the input was empty; Count is always set.
type Summary struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Mean  *float64 `json:"mean"`
	Count int      `json:"count"`
}

// Summarize aggregates values. An empty input yields Count 0 with nil stats,
// never an error; callers decide whether that is a problem in their context.
// The mean uses double-precision accumulation and is not rounded here;
// rounding is a presentation concern.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{Count: 0}
	}

	min := values[0]
	max := values[0]
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	return Summary{
		Min:   &min,
		Max:   &max,
		Mean:  &mean,
		Count: len(values),
	}
}
