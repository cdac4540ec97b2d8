package testkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicalDataGenerator_Shape(t *testing.T) {
	config := DefaultMedicalConfig()

	ds, err := NewMedicalDataGenerator(config).Generate()
	require.NoError(t, err)

	assert.Equal(t, config.Patients, ds.NumRows())
	assert.Len(t, ds.NumericColumns(), config.NumericFeatures)

	marker, ok := ds.Column(MarkerColumn)
	require.True(t, ok, "marker column %q missing", MarkerColumn)
	positives := 0
	for i := 0; i < ds.NumRows(); i++ {
		if s, ok := marker.StringAt(i); ok && strings.TrimSpace(s) != "" {
			positives++
		}
	}
	assert.Equal(t, config.Positives, positives)
}

func TestMedicalDataGenerator_Deterministic(t *testing.T) {
	config := DefaultMedicalConfig()
	config.Patients = 50
	config.Positives = 5

	a, err := NewMedicalDataGenerator(config).Generate()
	require.NoError(t, err)
	b, err := NewMedicalDataGenerator(config).Generate()
	require.NoError(t, err)

	ca, _ := a.Column("crp")
	cb, _ := b.Column("crp")
	require.Equal(t, len(ca.Float), len(cb.Float))
	for i := range ca.Float {
		require.Equal(t, ca.IsMissing(i), cb.IsMissing(i), "row %d", i)
		if !ca.IsMissing(i) {
			require.Equal(t, ca.Float[i], cb.Float[i], "row %d", i)
		}
	}
}

func TestMedicalDataGenerator_FeatureNames(t *testing.T) {
	config := DefaultMedicalConfig()
	config.NumericFeatures = 12
	names := NewMedicalDataGenerator(config).FeatureNames()

	require.Len(t, names, 12)
	assert.Equal(t, "blood pressure/systolic", names[1])
	assert.Equal(t, "lab_12", names[11])
}

func TestMedicalDataGenerator_InvalidPositives(t *testing.T) {
	config := DefaultMedicalConfig()
	config.Positives = config.Patients + 1
	_, err := NewMedicalDataGenerator(config).Generate()
	assert.Error(t, err)
}
