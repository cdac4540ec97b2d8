package labeling

import (
	"database/sql"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/domain/core"
	"medstat/domain/dataset"
	"medstat/internal"
)

var quiet = internal.NewLoggerTo(internal.LogLevelError, io.Discard)

func text(values ...interface{}) []sql.NullString {
	out := make([]sql.NullString, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[i] = sql.NullString{String: s, Valid: true}
		}
	}
	return out
}

func newDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("test", 5)
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("age", []float64{50, 60, 70, 80, math.NaN()})))
	require.NoError(t, ds.AddColumn(dataset.NewTextColumn("осложнения_после", text("кровотечение", "", "   ", nil, " x "))))
	return ds
}

func TestDerive_LabelsNonBlankStrings(t *testing.T) {
	ds := newDataset(t)

	res, err := NewDeriver("осложнения", "", quiet).Derive(ds)
	require.NoError(t, err)

	assert.Equal(t, "осложнения_после", res.SourceColumn)
	assert.Equal(t, []int{1, 0, 0, 0, 1}, res.Labels)
	assert.Equal(t, 2, res.Distribution.Positive)
	assert.Equal(t, 3, res.Distribution.Negative)
	assert.Equal(t, ds.NumRows(), res.Distribution.Total())

	col, ok := ds.Column(dataset.LabelColumn)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0, 0, 1}, col.Float)
}

func TestDerive_CaseInsensitiveMarker(t *testing.T) {
	ds := dataset.New("test", 2)
	require.NoError(t, ds.AddColumn(dataset.NewTextColumn("Post_Complications", text("yes", nil))))

	res, err := NewDeriver("COMPLICATIONS", "", quiet).Derive(ds)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, res.Labels)
}

func TestDerive_NoMarkerColumn(t *testing.T) {
	ds := dataset.New("test", 1)
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("age", []float64{1})))

	_, err := NewDeriver("осложнения", "", quiet).Derive(ds)
	require.Error(t, err)
	assert.True(t, core.IsMarkerError(err))
	assert.Contains(t, err.Error(), "no matching column")
	_, ok := ds.Column(dataset.LabelColumn)
	assert.False(t, ok)
}

func TestDerive_FirstMatchWinsAndReportsCandidates(t *testing.T) {
	ds := dataset.New("test", 2)
	require.NoError(t, ds.AddColumn(dataset.NewTextColumn("осложнения", text(nil, "a"))))
	require.NoError(t, ds.AddColumn(dataset.NewTextColumn("осложнения_тип", text("b", "b"))))

	res, err := NewDeriver("осложнения", "", quiet).Derive(ds)
	require.NoError(t, err)
	assert.Equal(t, "осложнения", res.SourceColumn)
	assert.Equal(t, []string{"осложнения", "осложнения_тип"}, res.Candidates)
	assert.Equal(t, []int{0, 1}, res.Labels)
}

func TestDerive_ExplicitColumn(t *testing.T) {
	ds := newDataset(t)

	res, err := NewDeriver("ignored", "ОСЛОЖНЕНИЯ_ПОСЛЕ", quiet).Derive(ds)
	require.NoError(t, err)
	assert.Equal(t, "осложнения_после", res.SourceColumn)

	_, err = NewDeriver("", "absent", quiet).Derive(newDataset(t))
	assert.True(t, core.IsMarkerError(err))
}

func TestDerive_NonTextColumnIsAllNegative(t *testing.T) {
	ds := dataset.New("test", 3)
	require.NoError(t, ds.AddColumn(dataset.NewNumericColumn("осложнения", []float64{1, 2, math.NaN()})))

	res, err := NewDeriver("осложнения", "", quiet).Derive(ds)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Distribution.Positive)
	assert.Equal(t, 3, res.Distribution.Negative)
}

func TestDerive_ReplacesExistingLabel(t *testing.T) {
	ds := newDataset(t)
	d := NewDeriver("осложнения", "", quiet)
	_, err := d.Derive(ds)
	require.NoError(t, err)
	cols := ds.NumColumns()

	_, err = d.Derive(ds)
	require.NoError(t, err)
	assert.Equal(t, cols, ds.NumColumns())
}
