// Package manifest persists the run manifest as JSON.
package manifest

import (
	"context"
	"encoding/json"
	"math"
	"os"

	"medstat/domain/analysis"
	"medstat/domain/run"
	"medstat/internal/errors"
)

// FileName is the manifest artifact name
const FileName = "run_manifest.json"

// JSONSink implements ports.ReportSink. It must run last so the manifest
// lists every other artifact; it records itself before writing.
type JSONSink struct{}

// NewJSONSink creates a sink
func NewJSONSink() *JSONSink { return &JSONSink{} }

func (s *JSONSink) FileName() string { return FileName }
func (s *JSONSink) Kind() string     { return run.ArtifactManifest }

// WriteReport writes the manifest. JSON has no NaN, so undefined
// coefficients are written as null.
func (s *JSONSink) WriteReport(ctx context.Context, m *run.Manifest, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Complete()

	out := struct {
		*run.Manifest
		Ranking []rankEntry `json:"ranking"`
	}{Manifest: m, Ranking: toRankEntries(m.Ranking)}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode run manifest")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.ArtifactWriteFailed(path, err)
	}
	return nil
}

// Read loads a manifest written by WriteReport
func Read(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var in struct {
		run.Manifest
		Ranking []rankEntry `json:"ranking"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	m := in.Manifest
	m.Ranking = make(analysis.Ranking, len(in.Ranking))
	for i, e := range in.Ranking {
		c := math.NaN()
		if e.Coefficient != nil {
			c = *e.Coefficient
		}
		m.Ranking[i] = analysis.FeatureCorrelation{Feature: e.Feature, Coefficient: c}
	}
	return &m, nil
}

type rankEntry struct {
	Feature     string   `json:"feature"`
	Coefficient *float64 `json:"coefficient"`
}

func toRankEntries(r analysis.Ranking) []rankEntry {
	out := make([]rankEntry, len(r))
	for i, fc := range r {
		out[i].Feature = fc.Feature
		if !math.IsNaN(fc.Coefficient) {
			c := fc.Coefficient
			out[i].Coefficient = &c
		}
	}
	return out
}
