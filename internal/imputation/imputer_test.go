package imputation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/domain/dataset"
)

var nan = math.NaN()

func TestImputer_Column(t *testing.T) {
	tests := []struct {
		name     string
		imputer  *Imputer
		input    []float64
		expected []float64
		fill     float64
	}{
		{"median odd", New(StrategyMedian, 0), []float64{1, nan, 3, 10}, []float64{1, 3, 3, 10}, 3},
		{"median even", New(StrategyMedian, 0), []float64{1, 2, nan, 4, 5}, []float64{1, 2, 3, 4, 5}, 3},
		{"mean", New(StrategyMean, 0), []float64{2, nan, 4}, []float64{2, 3, 4}, 3},
		{"constant", New(StrategyConstant, -1), []float64{nan, 7}, []float64{-1, 7}, -1},
		{"all missing", New(StrategyMedian, 0), []float64{nan, nan}, []float64{0, 0}, 0},
		{"no missing", New(StrategyMedian, 0), []float64{5, 1}, []float64{5, 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, fill, err := tt.imputer.Column(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.InDelta(t, tt.fill, fill, 1e-12)
		})
	}
}

func TestImputer_DatasetLeavesOtherColumns(t *testing.T) {
	ds := dataset.New("test", 3)
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("crp", []float64{4, nan, 8})))
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("age", []float64{30, 40, 50})))
	require.NoError(t, ds.AddColumn(dataset.NewBoolColumn("smoker", []float64{1, nan, 0})))

	fills, err := New(StrategyMedian, 0).Dataset(ds)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"crp": 6}, fills)

	crp, _ := ds.Column("crp")
	assert.Equal(t, []float64{4, 6, 8}, crp.Float)
	smoker, _ := ds.Column("smoker")
	assert.True(t, smoker.IsMissing(1))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("mean")
	require.NoError(t, err)
	assert.Equal(t, StrategyMean, s)

	_, err = ParseStrategy("mode")
	assert.Error(t, err)
}
