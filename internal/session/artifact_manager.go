package session

import (
	"context"
	"fmt"

	"medstat/domain/analysis"
	"medstat/domain/run"
	"medstat/internal"
	"medstat/ports"
)

// CorrelationChartName is the base name of the ranking chart
const CorrelationChartName = "correlation_with_complications"

// SavedFunc is notified of every artifact written
type SavedFunc func(artifact run.Artifact)

// ArtifactManager writes charts and reports into the store and records
// them on the run manifest. A failed write is a warning on the manifest,
// never an error for the caller.
type ArtifactManager struct {
	store     *LocalStore
	renderers []ports.ChartRenderer
	sinks     []ports.ReportSink
	logger    *internal.Logger
	onSaved   SavedFunc
}

// NewArtifactManager creates a manager; onSaved may be nil
func NewArtifactManager(store *LocalStore, renderers []ports.ChartRenderer, sinks []ports.ReportSink, logger *internal.Logger, onSaved SavedFunc) *ArtifactManager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ArtifactManager{
		store:     store,
		renderers: renderers,
		sinks:     sinks,
		logger:    logger,
		onSaved:   onSaved,
	}
}

// ProbabilityChartName returns the base name of a per-feature chart
func ProbabilityChartName(feature string) string {
	return "plot_" + SanitizeFilename(feature)
}

// SaveCorrelationChart renders the ranking with every renderer
func (am *ArtifactManager) SaveCorrelationChart(ranking analysis.Ranking, m *run.Manifest) {
	for _, r := range am.renderers {
		path := am.store.Path(CorrelationChartName + r.Extension())
		am.record(m, run.Artifact{Kind: run.ArtifactCorrelationChart, Path: path},
			r.RenderCorrelationChart(ranking, path))
	}
}

// SaveProbabilityChart renders one feature's probability chart with every renderer
func (am *ArtifactManager) SaveProbabilityChart(series analysis.ProbabilitySeries, m *run.Manifest) {
	for _, r := range am.renderers {
		path := am.store.Path(ProbabilityChartName(series.Feature) + r.Extension())
		am.record(m, run.Artifact{Kind: run.ArtifactProbabilityChart, Path: path, Feature: series.Feature},
			r.RenderProbabilityChart(series, path))
	}
}

// SaveReports runs every sink in order. Sinks see the artifacts recorded
// so far, so a manifest sink placed last lists everything before it.
func (am *ArtifactManager) SaveReports(ctx context.Context, m *run.Manifest) {
	for _, s := range am.sinks {
		path := am.store.Path(s.FileName())
		am.record(m, run.Artifact{Kind: s.Kind(), Path: path}, s.WriteReport(ctx, m, path))
	}
}

func (am *ArtifactManager) record(m *run.Manifest, a run.Artifact, err error) {
	if err != nil {
		msg := fmt.Sprintf("failed to write %s: %v", a.Path, err)
		am.logger.Warn("[ArtifactManager] %s", msg)
		m.AddWarning(msg)
		return
	}
	m.AddArtifact(a)
	am.logger.Debug("[ArtifactManager] wrote %s %s", a.Kind, a.Path)
	if am.onSaved != nil {
		am.onSaved(a)
	}
}
