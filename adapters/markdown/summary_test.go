package markdown

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/domain/analysis"
	"medstat/domain/run"
)

func sampleManifest() *run.Manifest {
	m := run.NewManifest("sqlite:test.db", 42)
	m.Rows = 10
	m.Labels = analysis.LabelDistribution{Column: "complications", Negative: 8, Positive: 2}
	m.Ranking = analysis.Ranking{
		{Feature: "crp", Coefficient: 0.5},
		{Feature: "a|b", Coefficient: math.NaN()},
	}
	m.Unbalanced = &analysis.EvaluationReport{
		Accuracy: 0.8,
		Classes:  []analysis.ClassMetrics{{Label: "0", Precision: 0.8, Recall: 1, F1: 0.89, Support: 8}},
	}
	m.AddArtifact(run.Artifact{Kind: run.ArtifactCorrelationChart, Path: "/out/correlation_with_complications.png"})
	m.AddWarning("failed to write /out/plot_x.png")
	return m
}

func TestRender_Sections(t *testing.T) {
	md := string(Render(sampleManifest()))

	assert.Contains(t, md, "| 1 | crp | 0.500000 |")
	assert.Contains(t, md, `a\|b`)
	assert.Contains(t, md, "NaN")
	assert.Contains(t, md, "**0.8000**")
	assert.Contains(t, md, "_не выполнено_")
	assert.Contains(t, md, "correlation_with_complications.png")
	assert.Contains(t, md, "plot_x.png")
}

func TestSinks_WriteFiles(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest()

	for _, s := range []*Sink{NewMarkdownSink(), NewHTMLSink()} {
		path := filepath.Join(dir, s.FileName())
		require.NoError(t, s.WriteReport(context.Background(), m, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "crp")
	}

	page, err := os.ReadFile(filepath.Join(dir, "summary.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
	assert.Contains(t, string(page), "<html")
}
