package dataset

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ConvertsValuesByKind(t *testing.T) {
	b, err := NewBuilder("test",
		[]string{"Age", "Note", "Admitted", "Smoker"},
		[]ColumnKind{KindNumeric, KindText, KindTemporal, KindBool})
	require.NoError(t, err)

	require.NoError(t, b.AppendRow([]any{int64(54), "ok", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true}))
	require.NoError(t, b.AppendRow([]any{[]byte("3,5"), []byte("bytes"), "2024-02-03", "no"}))
	require.NoError(t, b.AppendRow([]any{nil, nil, nil, nil}))
	require.NoError(t, b.AppendRow([]any{"n/a", 12.0, "garbage", "maybe"}))

	ds, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, ds.NumRows())

	age, _ := ds.Column("Age")
	assert.Equal(t, 54.0, age.Float[0])
	assert.Equal(t, 3.5, age.Float[1])
	assert.True(t, math.IsNaN(age.Float[2]))
	assert.True(t, math.IsNaN(age.Float[3]))
	assert.Equal(t, 2, age.MissingCount())

	note, _ := ds.Column("Note")
	s, ok := note.StringAt(1)
	assert.True(t, ok)
	assert.Equal(t, "bytes", s)
	_, ok = note.StringAt(3)
	assert.False(t, ok, "numbers in a text column are not strings")

	admitted, _ := ds.Column("Admitted")
	assert.True(t, admitted.Time[1].Valid)
	assert.False(t, admitted.Time[3].Valid)

	smoker, _ := ds.Column("Smoker")
	assert.Equal(t, []float64{1, 0}, smoker.Float[:2])
	assert.False(t, smoker.IsNumeric())
}

func TestBuilder_RowWidthMismatch(t *testing.T) {
	b, err := NewBuilder("test", []string{"a"}, []ColumnKind{KindNumeric})
	require.NoError(t, err)
	assert.Error(t, b.AppendRow([]any{1.0, 2.0}))
}

func TestDataset_LowercaseNamesDeduplicates(t *testing.T) {
	ds := New("test", 1)
	require.NoError(t, ds.AddColumn(NewNumericColumn("BMI", []float64{1})))
	require.NoError(t, ds.AddColumn(NewNumericColumn("bmi", []float64{2})))
	require.NoError(t, ds.AddColumn(NewTextColumn("Осложнения", []sql.NullString{{String: "x", Valid: true}})))

	ds.LowercaseNames()

	assert.Equal(t, []string{"bmi", "bmi.1", "осложнения"}, ds.ColumnNames())
	c, ok := ds.Column("bmi.1")
	require.True(t, ok)
	assert.Equal(t, 2.0, c.Float[0])
}

func TestDataset_AddColumnReplacesAndChecksLength(t *testing.T) {
	ds := New("test", 2)
	require.NoError(t, ds.AddColumn(NewNumericColumn("x", []float64{1, 2})))
	require.NoError(t, ds.AddColumn(NewNumericColumn("x", []float64{3, 4})))
	assert.Equal(t, 1, ds.NumColumns())

	c, _ := ds.Column("x")
	assert.Equal(t, []float64{3, 4}, c.Float)

	assert.Error(t, ds.AddColumn(NewNumericColumn("y", []float64{1})))
}

func TestNewFeatureMatrix_RejectsLabelAsFeature(t *testing.T) {
	ds := New("test", 2)
	require.NoError(t, ds.AddColumn(NewNumericColumn("x", []float64{1, 2})))
	require.NoError(t, ds.AddColumn(NewNumericColumn(LabelColumn, []float64{0, 1})))

	_, err := NewFeatureMatrix(ds, []string{"x", LabelColumn}, LabelColumn)
	assert.Error(t, err)

	m, err := NewFeatureMatrix(ds, []string{"x"}, LabelColumn)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, []int{0, 1}, m.Labels)
	assert.Equal(t, map[int]int{0: 1, 1: 1}, m.ClassCounts())
	assert.Equal(t, []float64{2, 1}, m.Subset([]int{1, 0}).Column(0))
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		ok      bool
		missing bool
	}{
		{"12.5", 12.5, true, false},
		{" -3 ", -3, true, false},
		{"3,5", 3.5, true, false},
		{"0,25", 0.25, true, false},
		{"1,000", 0, false, false},
		{"1,000,000", 0, false, false},
		{"1,5,2", 0, false, false},
		{"1,000.5", 0, false, false},
		{"abc", 0, false, false},
		{"", 0, false, true},
		{"NA", 0, false, true},
		{"NaN", 0, false, true},
		{"None", 0, false, true},
		{"n/a", 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.missing, IsMissingToken(tt.in))
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			} else {
				assert.True(t, math.IsNaN(got))
			}
		})
	}
}
