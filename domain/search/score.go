package search

import "math"

// Score converts a raw distance into a similarity score in (0, 1].
// Zero distance maps to 1 and the score decays monotonically toward 0 as
// distance grows; exp underflows gracefully for very large distances rather
// than erroring.
func Score(distance float64) float64 {
	return math.Exp(-distance)
}
