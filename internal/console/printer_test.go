package console

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"medstat/domain/analysis"
	"medstat/domain/dataset"
	"medstat/domain/run"
	"medstat/internal/profiling"
)

func TestPrinter_Sections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Distribution(analysis.LabelDistribution{Column: dataset.LabelColumn, Negative: 950, Positive: 50})
	p.Ranking(analysis.Ranking{{Feature: "crp", Coefficient: 0.123456789}, {Feature: "flat", Coefficient: math.NaN()}})
	p.Report(&analysis.EvaluationReport{
		Name:        analysis.CycleUnbalanced,
		Accuracy:    0.95,
		Classes:     []analysis.ClassMetrics{{Label: "0", Precision: 0.95, Recall: 1, F1: 0.974, Support: 190}},
		MacroAvg:    analysis.ClassMetrics{Label: "macro avg", Support: 190},
		WeightedAvg: analysis.ClassMetrics{Label: "weighted avg", Support: 190},
	})
	p.Saved(run.Artifact{Path: "out/plot_crp.png"})

	out := buf.String()
	assert.Contains(t, out, HeadingDistribution)
	assert.Contains(t, out, "950")
	assert.Contains(t, out, "Топ-2 признаков")
	assert.Contains(t, out, "0.123457")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, HeadingUnbalanced)
	assert.Contains(t, out, "Точность: 0.9500")
	assert.Contains(t, out, "weighted avg")
	assert.Contains(t, out, "График сохранён: out/plot_crp.png")
}

func TestPrinter_Profiles(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Profiles([]profiling.ColumnProfile{
		{Name: "crp", Observed: 3, Missing: 1, Mean: 12.5, StdDev: 2, Min: 10, Median: 12, Max: 15, Outliers: 0},
		{Name: "empty", Missing: 4, Mean: math.NaN()},
	})

	out := buf.String()
	assert.Contains(t, out, "crp")
	assert.Contains(t, out, "12.500")
	assert.Contains(t, out, "empty")
	assert.Contains(t, out, "-")
}

func TestPrinter_ReportHeadingByCycle(t *testing.T) {
	tests := map[string]string{
		analysis.CycleUnbalanced: HeadingUnbalanced,
		analysis.CycleBalanced:   HeadingBalanced,
		"custom":                 "custom:",
	}
	for name, heading := range tests {
		var buf bytes.Buffer
		NewPrinter(&buf).Report(&analysis.EvaluationReport{Name: name})
		assert.Contains(t, buf.String(), heading, name)
	}
}
