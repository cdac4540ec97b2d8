package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/internal/errors"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"database_url": "postgres://localhost/medical_data",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, DefaultTable, cfg.Database.Table)
	assert.Equal(t, DefaultLabelMarker, cfg.Analysis.LabelMarker)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.InDelta(t, 0.2, cfg.Analysis.TestSize, 1e-12)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	assert.Equal(t, 100, cfg.Analysis.NTrees)
	assert.Equal(t, 5, cfg.Analysis.SmoteK)
	assert.Equal(t, "median", cfg.Analysis.ImputeStrategy)
	assert.Equal(t, 3, cfg.Analysis.PlotFeatures)
}

func TestFromViper_DataFileWithoutDatabase(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"data_file": "patients.csv",
	}))
	require.NoError(t, err)
	assert.Equal(t, "patients.csv", cfg.Source.DataFile)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{"no source", map[string]interface{}{}},
		{"bad driver", map[string]interface{}{"database_url": "x", "db_driver": "oracle"}},
		{"zero top n", map[string]interface{}{"data_file": "a.csv", "top_n": 0}},
		{"test size one", map[string]interface{}{"data_file": "a.csv", "test_size": 1.0}},
		{"bad strategy", map[string]interface{}{"data_file": "a.csv", "impute_strategy": "mode"}},
		{"no label", map[string]interface{}{"data_file": "a.csv", "label_marker": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medstat.yaml")
	content := "data_file: cohort.xlsx\ntop_n: 5\nimpute_strategy: mean\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cohort.xlsx", cfg.Source.DataFile)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, "mean", cfg.Analysis.ImputeStrategy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_FILE", "from_env.csv")
	t.Setenv("SEED", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_env.csv", cfg.Source.DataFile)
	assert.Equal(t, int64(7), cfg.Analysis.Seed)
}
