// Package correlation ranks numeric features by Pearson correlation with the label.
package correlation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"medstat/domain/analysis"
	"medstat/domain/core"
	"medstat/domain/dataset"
)

// Rank correlates every numeric column of ds except label with the label
// column and returns the topN entries by descending signed coefficient.
// Missing values must already be imputed. Ties keep column order and
// undefined (NaN) coefficients sort after all finite ones.
func Rank(ds *dataset.Dataset, label string, topN int) (analysis.Ranking, error) {
	full, err := RankAll(ds, label)
	if err != nil {
		return nil, err
	}
	return full.Head(topN), nil
}

// RankAll is Rank without the cut-off
func RankAll(ds *dataset.Dataset, label string) (analysis.Ranking, error) {
	labelCol, ok := ds.Column(label)
	if !ok {
		return nil, fmt.Errorf("label column %q not found", label)
	}
	if !labelCol.IsNumeric() {
		return nil, fmt.Errorf("label column %q is %s, not numeric", label, labelCol.Kind)
	}
	y := labelCol.Float

	var ranking analysis.Ranking
	for _, c := range ds.NumericColumns() {
		if c.Name == label {
			continue
		}
		if c.MissingCount() > 0 {
			return nil, fmt.Errorf("column %q has %d missing values; impute before ranking", c.Name, c.MissingCount())
		}
		ranking = append(ranking, analysis.FeatureCorrelation{
			Feature:     c.Name,
			Coefficient: Pearson(c.Float, y),
		})
	}
	if len(ranking) == 0 {
		return nil, core.ErrNoNumericFeatures
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i].Coefficient, ranking[j].Coefficient
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a > b
	})
	return ranking, nil
}

// Pearson returns the sample correlation of x and y, NaN when either is constant
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
