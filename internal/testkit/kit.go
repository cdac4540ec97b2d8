package testkit

import (
	"context"
	"sync"

	"medstat/domain/analysis"
	"medstat/domain/dataset"
	"medstat/domain/run"
)

// StaticSource serves a prebuilt dataset as a ports.DatasetSource
type StaticSource struct {
	Dataset *dataset.Dataset
	Err     error
}

func (s *StaticSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Dataset, nil
}

func (s *StaticSource) Describe() string { return "static:" + s.Dataset.Source }

// MemoryRenderer is a ports.ChartRenderer that keeps chart inputs in memory.
// Features listed in Fail produce an error instead.
type MemoryRenderer struct {
	Fail map[string]bool

	mu       sync.Mutex
	Rankings []analysis.Ranking
	Series   []analysis.ProbabilitySeries
	Paths    []string
}

func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{Fail: make(map[string]bool)}
}

func (r *MemoryRenderer) Extension() string { return ".mem" }

func (r *MemoryRenderer) RenderCorrelationChart(ranking analysis.Ranking, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rankings = append(r.Rankings, ranking)
	r.Paths = append(r.Paths, path)
	return nil
}

func (r *MemoryRenderer) RenderProbabilityChart(series analysis.ProbabilitySeries, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail[series.Feature] {
		return errRenderFailed
	}
	r.Series = append(r.Series, series)
	r.Paths = append(r.Paths, path)
	return nil
}

// MemorySink is a ports.ReportSink that keeps the last manifest it saw
type MemorySink struct {
	Last *run.Manifest
}

func (s *MemorySink) FileName() string { return "memory" }
func (s *MemorySink) Kind() string     { return run.ArtifactSummary }

func (s *MemorySink) WriteReport(_ context.Context, m *run.Manifest, _ string) error {
	copied := *m
	s.Last = &copied
	return nil
}

type renderError string

func (e renderError) Error() string { return string(e) }

const errRenderFailed = renderError("render failed")
