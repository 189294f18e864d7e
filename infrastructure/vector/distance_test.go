package vector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestL2Distance(t *testing.T) {
	d, err := l2Distance([]float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	require.Equal(t, 5.0, d)

	d, err = l2Distance([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Zero(t, d)
}

func TestL2Distance_DimensionMismatch(t *testing.T) {
	_, err := l2Distance([]float64{1, 2}, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNearestK(t *testing.T) {
	candidates := []candidate{
		{id: "far", vector: []float64{10, 10}},
		{id: "near", vector: []float64{1, 0}},
		{id: "mid", vector: []float64{3, 4}},
	}

	matches, err := nearestK([]float64{0, 0}, candidates, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "near", matches[0].ID())
	require.Equal(t, "mid", matches[1].ID())
	require.InDelta(t, 1.0, matches[0].Distance(), 1e-9)
	require.InDelta(t, 5.0, matches[1].Distance(), 1e-9)
}

func TestNearestK_KLargerThanCandidates(t *testing.T) {
	matches, err := nearestK([]float64{0}, []candidate{{id: "only", vector: []float64{1}}}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestNearestK_Empty(t *testing.T) {
	matches, err := nearestK([]float64{0}, nil, 5)
	require.NoError(t, err)
	require.Empty(t, matches)

	matches, err = nearestK([]float64{0}, []candidate{{id: "a", vector: []float64{1}}}, 0)
	require.NoError(t, err)
	require.Empty(t, matches)
}
