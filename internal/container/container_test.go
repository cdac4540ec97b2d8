package container

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/adapters/excel"
	"medstat/adapters/sqldb"
	"medstat/internal"
	"medstat/internal/config"
)

var quiet = internal.NewLoggerTo(internal.LogLevelError, io.Discard)

func baseConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{URL: "file.db", Driver: "sqlite", Table: "newtable"},
		Analysis: config.AnalysisConfig{
			LabelMarker:    config.DefaultLabelMarker,
			TopN:           10,
			TestSize:       0.2,
			Seed:           42,
			NTrees:         10,
			SmoteK:         5,
			ImputeStrategy: "median",
			PlotFeatures:   3,
		},
		Output: config.OutputConfig{Dir: t.TempDir(), Summary: true, Manifest: true},
	}
}

func TestNew_WiresDatabaseSource(t *testing.T) {
	c, err := New(baseConfig(t), quiet, io.Discard)
	require.NoError(t, err)

	_, ok := c.Source.(*sqldb.Source)
	assert.True(t, ok)
	assert.Len(t, c.Renderers, 1)
	require.Len(t, c.Sinks, 3)
	assert.Equal(t, "run_manifest.json", c.Sinks[2].FileName())
	assert.NotNil(t, c.Pipeline)
}

func TestNew_DataFileAndOptionalOutputs(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Source.DataFile = "cohort.xlsx"
	cfg.Output.HTMLCharts = true
	cfg.Output.XLSXReport = true

	c, err := New(cfg, quiet, io.Discard)
	require.NoError(t, err)

	_, ok := c.Source.(*excel.DataReader)
	assert.True(t, ok)
	assert.Len(t, c.Renderers, 2)
	assert.Equal(t, "analysis_report.xlsx", c.Sinks[0].FileName())
}

func TestNew_BadStrategy(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Analysis.ImputeStrategy = "mode"
	_, err := New(cfg, quiet, io.Discard)
	assert.Error(t, err)
}
