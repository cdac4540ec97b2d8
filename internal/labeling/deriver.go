// Package labeling derives the binary complication label from a free-text column.
package labeling

import (
	"strings"

	"medstat/domain/analysis"
	"medstat/domain/core"
	"medstat/domain/dataset"
	"medstat/internal"
)

// Deriver resolves the source column and writes the label column
type Deriver struct {
	// Marker is matched case-insensitively as a substring of column names
	Marker string
	// Column, when set, names the source column exactly (case-insensitive)
	// and disables marker matching
	Column string
	logger *internal.Logger
}

// Result describes a derivation
type Result struct {
	SourceColumn string
	Candidates   []string
	Distribution analysis.LabelDistribution
	Labels       []int
}

// NewDeriver creates a deriver; a nil logger uses the default
func NewDeriver(marker, column string, logger *internal.Logger) *Deriver {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Deriver{Marker: marker, Column: column, logger: logger}
}

// Resolve picks the source column without modifying ds
func (d *Deriver) Resolve(ds *dataset.Dataset) (string, []string, error) {
	if d.Column != "" {
		for _, name := range ds.ColumnNames() {
			if strings.EqualFold(name, d.Column) {
				return name, []string{name}, nil
			}
		}
		return "", nil, core.NewMissingColumnError(d.Column)
	}

	candidates := Candidates(ds, d.Marker)
	if len(candidates) == 0 {
		return "", nil, core.NewMarkerError(d.Marker)
	}
	return candidates[0], candidates, nil
}

// Derive labels every row and appends the complications column to ds.
// A row is positive iff its source value is a string that is non-empty
// after trimming whitespace.
func (d *Deriver) Derive(ds *dataset.Dataset) (*Result, error) {
	source, candidates, err := d.Resolve(ds)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 1 {
		d.logger.Warn("[Labeling] marker %q matches %d columns %v; using %q",
			d.Marker, len(candidates), candidates, source)
	}

	col, _ := ds.Column(source)
	n := ds.NumRows()
	labels := make([]int, n)
	values := make([]float64, n)
	dist := analysis.LabelDistribution{Column: dataset.LabelColumn}
	for i := 0; i < n; i++ {
		if s, ok := col.StringAt(i); ok && strings.TrimSpace(s) != "" {
			labels[i] = 1
			values[i] = 1
			dist.Positive++
		} else {
			dist.Negative++
		}
	}

	if err := ds.AddColumn(dataset.NewNumericColumn(dataset.LabelColumn, values)); err != nil {
		return nil, err
	}
	d.logger.Debug("[Labeling] %s -> %s: %d positive, %d negative",
		source, dataset.LabelColumn, dist.Positive, dist.Negative)

	return &Result{
		SourceColumn: source,
		Candidates:   candidates,
		Distribution: dist,
		Labels:       labels,
	}, nil
}

// Candidates lists column names containing marker, in declaration order.
// The label column itself never matches.
func Candidates(ds *dataset.Dataset, marker string) []string {
	needle := strings.ToLower(marker)
	if needle == "" {
		return nil
	}
	var out []string
	for _, name := range ds.ColumnNames() {
		if name == dataset.LabelColumn {
			continue
		}
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	return out
}
