// Package profiling summarizes numeric columns for the inspect command.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"medstat/domain/dataset"
)

// ColumnProfile is a summary of one numeric column over its observed values
type ColumnProfile struct {
	Name     string
	Observed int
	Missing  int
	Mean     float64
	StdDev   float64
	Min      float64
	Q25      float64
	Median   float64
	Q75      float64
	Max      float64
	Skewness float64
	Outliers int // outside 1.5 IQR
}

// ProfileColumn computes summary statistics for a numeric column.
// A column with no observed values returns a profile with only counts set.
func ProfileColumn(c *dataset.Column) (ColumnProfile, error) {
	p := ColumnProfile{Name: c.Name}
	data := make(stats.Float64Data, 0, len(c.Float))
	for _, v := range c.Float {
		if math.IsNaN(v) {
			p.Missing++
		} else {
			data = append(data, v)
		}
	}
	p.Observed = len(data)
	if p.Observed == 0 {
		return p, nil
	}

	var err error
	if p.Mean, err = data.Mean(); err != nil {
		return p, err
	}
	if p.StdDev, err = data.StandardDeviationSample(); err != nil {
		return p, err
	}
	if p.Min, err = data.Min(); err != nil {
		return p, err
	}
	if p.Max, err = data.Max(); err != nil {
		return p, err
	}
	if p.Median, err = data.Median(); err != nil {
		return p, err
	}
	if p.Q25, err = data.PercentileNearestRank(25); err != nil {
		return p, err
	}
	if p.Q75, err = data.PercentileNearestRank(75); err != nil {
		return p, err
	}
	p.Skewness = calculateSkewness(data, p.Mean, p.StdDev)
	p.Outliers = detectOutliers(data, p.Q25, p.Q75)
	return p, nil
}

// ProfileDataset profiles every numeric column in declaration order
func ProfileDataset(ds *dataset.Dataset) ([]ColumnProfile, error) {
	var out []ColumnProfile
	for _, c := range ds.NumericColumns() {
		p, err := ProfileColumn(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
