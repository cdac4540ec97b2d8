package smoothing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowess_RecoversLine(t *testing.T) {
	x := []float64{5, 1, 4, 2, 3, 0, 6, 8, 7, 9}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	pts, err := Lowess(x, y, DefaultFrac, DefaultIterations)
	require.NoError(t, err)
	require.Len(t, pts, len(x))
	for i, p := range pts {
		assert.Equal(t, float64(i), p.X)
		assert.InDelta(t, 2*p.X+1, p.Y, 1e-9)
	}
}

func TestLowess_DampsOutlier(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 60
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = 0.5 + 0.01*rng.NormFloat64()
	}
	y[30] = 50

	pts, err := Lowess(x, y, DefaultFrac, DefaultIterations)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pts[30].Y, 0.1)
}

func TestLowess_Degenerate(t *testing.T) {
	pts, err := Lowess(nil, nil, DefaultFrac, DefaultIterations)
	require.NoError(t, err)
	assert.Empty(t, pts)

	pts, err = Lowess([]float64{1, 1, 1}, []float64{0, 1, 2}, DefaultFrac, DefaultIterations)
	require.NoError(t, err)
	for _, p := range pts {
		assert.False(t, math.IsNaN(p.Y))
	}

	_, err = Lowess([]float64{1}, []float64{1, 2}, DefaultFrac, DefaultIterations)
	assert.Error(t, err)
	_, err = Lowess([]float64{1}, []float64{1}, 0, DefaultIterations)
	assert.Error(t, err)
}
