package vector

import (
	"math"
	"sort"

	"github.com/parkscout/parkscout/domain/search"
)

// l2Distance computes the Euclidean distance between two vectors.
func l2Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// candidate pairs a stored row id with its vector for ranking.
type candidate struct {
	id     string
	vector []float64
}

// nearestK ranks candidates by L2 distance from the query vector and returns
// the k nearest, ascending.
func nearestK(query []float64, candidates []candidate, k int) ([]search.Match, error) {
	if len(candidates) == 0 || k <= 0 {
		return []search.Match{}, nil
	}

	matches := make([]search.Match, 0, len(candidates))
	for _, c := range candidates {
		distance, err := l2Distance(query, c.vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, search.NewMatch(c.id, distance))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance() < matches[j].Distance()
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}
