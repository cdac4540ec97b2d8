package dataset

import (
	"fmt"

	"medstat/domain/core"
)

// FeatureMatrix is the dense numeric input to model training.
// Rows are samples, columns follow FeatureNames.
type FeatureMatrix struct {
	Data         [][]float64
	Labels       []int
	FeatureNames []string
}

// NewFeatureMatrix gathers the named numeric columns and the label column
// from ds. The label column must not appear among the features.
func NewFeatureMatrix(ds *Dataset, features []string, label string) (*FeatureMatrix, error) {
	labelCol, ok := ds.Column(label)
	if !ok {
		return nil, fmt.Errorf("label column %q not found", label)
	}
	cols := make([]*Column, len(features))
	for j, name := range features {
		if name == label {
			return nil, fmt.Errorf("label column %q cannot be used as a feature", label)
		}
		c, ok := ds.Column(name)
		if !ok {
			return nil, fmt.Errorf("feature column %q not found", name)
		}
		if !c.IsNumeric() {
			return nil, fmt.Errorf("feature column %q is %s, not numeric", name, c.Kind)
		}
		cols[j] = c
	}

	n := ds.NumRows()
	m := &FeatureMatrix{
		Data:         make([][]float64, n),
		Labels:       make([]int, n),
		FeatureNames: append([]string(nil), features...),
	}
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c.Float[i]
		}
		m.Data[i] = row
		m.Labels[i] = int(labelCol.Float[i])
	}
	return m, nil
}

// NumSamples returns the row count
func (m *FeatureMatrix) NumSamples() int {
	return len(m.Data)
}

// NumFeatures returns the column count
func (m *FeatureMatrix) NumFeatures() int {
	return len(m.FeatureNames)
}

// Validate checks shape consistency
func (m *FeatureMatrix) Validate() error {
	if len(m.Data) != len(m.Labels) {
		return fmt.Errorf("%w: %d rows, %d labels", core.ErrShapeMismatch, len(m.Data), len(m.Labels))
	}
	for i, row := range m.Data {
		if len(row) != len(m.FeatureNames) {
			return fmt.Errorf("%w: row %d has %d values, expected %d", core.ErrInconsistentRow, i, len(row), len(m.FeatureNames))
		}
	}
	return nil
}

// ClassCounts counts samples per label value
func (m *FeatureMatrix) ClassCounts() map[int]int {
	return CountLabels(m.Labels)
}

// Column returns a copy of feature j across all rows
func (m *FeatureMatrix) Column(j int) []float64 {
	out := make([]float64, len(m.Data))
	for i, row := range m.Data {
		out[i] = row[j]
	}
	return out
}

// Subset returns a matrix made of the given row indices, in that order
func (m *FeatureMatrix) Subset(idx []int) *FeatureMatrix {
	out := &FeatureMatrix{
		Data:         make([][]float64, len(idx)),
		Labels:       make([]int, len(idx)),
		FeatureNames: m.FeatureNames,
	}
	for k, i := range idx {
		out.Data[k] = m.Data[i]
		out.Labels[k] = m.Labels[i]
	}
	return out
}

// CountLabels counts occurrences of each label value
func CountLabels(labels []int) map[int]int {
	counts := make(map[int]int)
	for _, y := range labels {
		counts[y]++
	}
	return counts
}
