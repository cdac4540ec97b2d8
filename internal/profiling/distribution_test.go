package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/domain/dataset"
)

func TestProfileColumn(t *testing.T) {
	c := dataset.NewNumericColumn("crp", []float64{1, 2, 3, 4, math.NaN(), 100})

	p, err := ProfileColumn(c)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Observed)
	assert.Equal(t, 1, p.Missing)
	assert.Equal(t, 3.0, p.Median)
	assert.Equal(t, 1.0, p.Min)
	assert.Equal(t, 100.0, p.Max)
	assert.InDelta(t, 22.0, p.Mean, 1e-12)
	assert.Equal(t, 1, p.Outliers)
	assert.Greater(t, p.Skewness, 0.0)
}

func TestProfileColumn_AllMissing(t *testing.T) {
	p, err := ProfileColumn(dataset.NewNumericColumn("x", []float64{math.NaN(), math.NaN()}))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Observed)
	assert.Equal(t, 2, p.Missing)
}

func TestProfileDataset_SkipsNonNumeric(t *testing.T) {
	ds := dataset.New("test", 2)
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("a", []float64{1, 2})))
	require.NoError(t, ds.AddColumn(dataset.NewBoolColumn("b", []float64{0, 1})))

	profiles, err := ProfileDataset(ds)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "a", profiles[0].Name)
}
