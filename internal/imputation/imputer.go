// Package imputation fills missing numeric values column by column.
package imputation

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"medstat/domain/dataset"
)

// Strategy selects the fill value for a column
type Strategy string

const (
	StrategyMedian   Strategy = "median"
	StrategyMean     Strategy = "mean"
	StrategyConstant Strategy = "constant"
)

// ParseStrategy validates a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMedian, StrategyMean, StrategyConstant:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown imputation strategy %q", s)
}

// Imputer fills NaN entries of numeric columns
type Imputer struct {
	Strategy Strategy
	Constant float64
}

// New creates an imputer
func New(strategy Strategy, constant float64) *Imputer {
	return &Imputer{Strategy: strategy, Constant: constant}
}

// Describe renders the strategy for logs and the manifest
func (im *Imputer) Describe() string {
	if im.Strategy == StrategyConstant {
		return fmt.Sprintf("constant(%g)", im.Constant)
	}
	return string(im.Strategy)
}

// FillValue computes the fill value from the non-missing entries of values.
// A column with no observed values fills with 0 under median and mean.
func (im *Imputer) FillValue(values []float64) (float64, error) {
	if im.Strategy == StrategyConstant {
		return im.Constant, nil
	}
	observed := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return 0, nil
	}
	switch im.Strategy {
	case StrategyMean:
		return observed.Mean()
	case StrategyMedian:
		return observed.Median()
	}
	return 0, fmt.Errorf("unknown imputation strategy %q", im.Strategy)
}

// Column returns a filled copy of values and the fill value used
func (im *Imputer) Column(values []float64) ([]float64, float64, error) {
	fill, err := im.FillValue(values)
	if err != nil {
		return nil, 0, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return out, fill, nil
}

// Dataset fills every numeric column of ds in place and returns the fill
// value used per column that had missing entries
func (im *Imputer) Dataset(ds *dataset.Dataset) (map[string]float64, error) {
	fills := make(map[string]float64)
	for _, c := range ds.NumericColumns() {
		if c.MissingCount() == 0 {
			continue
		}
		filled, fill, err := im.Column(c.Float)
		if err != nil {
			return nil, fmt.Errorf("impute %s: %w", c.Name, err)
		}
		c.Float = filled
		fills[c.Name] = fill
	}
	return fills, nil
}
