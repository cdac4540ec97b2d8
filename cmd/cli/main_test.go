package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medstat/internal/config"
)

func TestGenerateThenInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cohort.csv")

	var out bytes.Buffer
	gen := newGenerateCmd()
	gen.SetOut(&out)
	gen.SetArgs([]string{"--rows", "120", "--features", "6", "--positives", "12", "--out", path})
	require.NoError(t, gen.Execute())
	assert.Contains(t, out.String(), "Wrote 120 patients")

	out.Reset()
	inspect := newInspectCmd(config.NewViper())
	inspect.SetOut(&out)
	inspect.SetArgs([]string{"--data-file", path})
	require.NoError(t, inspect.Execute())
	assert.Contains(t, out.String(), "осложнения")
	assert.Contains(t, out.String(), "crp")
}

func TestGenerateSQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cohort.db")

	gen := newGenerateCmd()
	gen.SetOut(&bytes.Buffer{})
	gen.SetArgs([]string{"--rows", "60", "--features", "4", "--positives", "6", "--out", path, "--table", "patients"})
	require.NoError(t, gen.Execute())

	var out bytes.Buffer
	inspect := newInspectCmd(config.NewViper())
	inspect.SetOut(&out)
	inspect.SetArgs([]string{"--database-url", path, "--driver", "sqlite", "--table", "patients"})
	require.NoError(t, inspect.Execute())
	assert.Contains(t, out.String(), "60 rows")
}
