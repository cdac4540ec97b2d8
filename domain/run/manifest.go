package run

import (
	"medstat/domain/analysis"
	"medstat/domain/core"
)

// Artifact is a file written during a run
type Artifact struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Feature string `json:"feature,omitempty"`
}

// Artifact kinds
const (
	ArtifactCorrelationChart = "correlation_chart"
	ArtifactProbabilityChart = "probability_chart"
	ArtifactWorkbook         = "workbook"
	ArtifactSummary          = "summary"
	ArtifactManifest         = "manifest"
)

// Manifest is the auditable record of one pipeline execution
type Manifest struct {
	RunID       core.RunID                 `json:"run_id"`
	Source      string                     `json:"source"`
	DatasetHash core.Hash                  `json:"dataset_hash"`
	Rows        int                        `json:"rows"`
	Seed        int64                      `json:"seed"`
	Imputation  string                     `json:"imputation"`
	Labels      analysis.LabelDistribution `json:"labels"`
	Ranking     analysis.Ranking           `json:"ranking"`
	Unbalanced  *analysis.EvaluationReport `json:"unbalanced,omitempty"`
	Balanced    *analysis.EvaluationReport `json:"balanced,omitempty"`
	Artifacts   []Artifact                 `json:"artifacts"`
	Warnings    []string                   `json:"warnings,omitempty"`
	StartedAt   core.Timestamp             `json:"started_at"`
	CompletedAt core.Timestamp             `json:"completed_at"`
}

// NewManifest starts a manifest for a fresh run
func NewManifest(source string, seed int64) *Manifest {
	return &Manifest{
		RunID:     core.NewRunID(),
		Source:    source,
		Seed:      seed,
		StartedAt: core.Now(),
	}
}

// AddArtifact records a written file
func (m *Manifest) AddArtifact(a Artifact) {
	m.Artifacts = append(m.Artifacts, a)
}

// AddWarning records a non-fatal problem
func (m *Manifest) AddWarning(w string) {
	m.Warnings = append(m.Warnings, w)
}

// Complete stamps the completion time
func (m *Manifest) Complete() {
	m.CompletedAt = core.Now()
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Source == "" {
		return core.NewValidationError("run_manifest", "source cannot be empty")
	}
	if m.Labels.Total() != m.Rows {
		return core.NewValidationError("run_manifest", "label distribution does not cover all rows")
	}
	return nil
}
