package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/domain/core"
	"medstat/domain/dataset"
)

func labelled(t *testing.T, label []float64, cols map[string][]float64, order []string) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("test", len(label))
	for _, name := range order {
		require.NoError(t, ds.AddColumn(dataset.NewNumericColumn(name, cols[name])))
	}
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn(dataset.LabelColumn, label)))
	return ds
}

func TestRank_OrdersBySignedCoefficient(t *testing.T) {
	y := []float64{0, 0, 1, 1, 0, 1}
	ds := labelled(t, y, map[string][]float64{
		"positive": {1, 2, 8, 9, 1, 7},
		"negative": {9, 8, 1, 2, 9, 3},
		"constant": {5, 5, 5, 5, 5, 5},
		"same":     {0, 0, 1, 1, 0, 1},
		"weak":     {1, 3, 2, 4, 2, 3},
	}, []string{"positive", "negative", "constant", "same", "weak"})

	r, err := Rank(ds, dataset.LabelColumn, 10)
	require.NoError(t, err)
	require.Len(t, r, 5)

	assert.Equal(t, []string{"same", "positive", "weak", "negative", "constant"}, r.Features())
	assert.InDelta(t, 1.0, r[0].Coefficient, 1e-12)
	assert.True(t, math.IsNaN(r[4].Coefficient))

	for i := 1; i < 4; i++ {
		assert.GreaterOrEqual(t, r[i-1].Coefficient, r[i].Coefficient)
	}
	assert.NotContains(t, r.Features(), dataset.LabelColumn)
}

func TestRank_TopNAndTies(t *testing.T) {
	y := []float64{0, 1, 0, 1}
	ds := labelled(t, y, map[string][]float64{
		"b": {0, 1, 0, 1},
		"a": {0, 1, 0, 1},
		"c": {1, 0, 1, 0},
	}, []string{"b", "a", "c"})

	r, err := Rank(ds, dataset.LabelColumn, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, r.Features())
}

func TestRank_FewerThanTopN(t *testing.T) {
	ds := labelled(t, []float64{0, 1, 1}, map[string][]float64{"x": {1, 2, 3}}, []string{"x"})

	r, err := Rank(ds, dataset.LabelColumn, 10)
	require.NoError(t, err)
	assert.Len(t, r, 1)
}

func TestRank_Errors(t *testing.T) {
	ds := labelled(t, []float64{0, 1}, nil, nil)
	_, err := Rank(ds, dataset.LabelColumn, 10)
	assert.ErrorIs(t, err, core.ErrNoNumericFeatures)

	ds = labelled(t, []float64{0, 1}, map[string][]float64{"x": {1, math.NaN()}}, []string{"x"})
	_, err = Rank(ds, dataset.LabelColumn, 10)
	assert.Error(t, err)

	_, err = Rank(ds, "absent", 10)
	assert.Error(t, err)
}
