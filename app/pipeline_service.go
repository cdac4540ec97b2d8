package app

import (
	"context"
	"fmt"

	"medstat/domain/analysis"
	"medstat/domain/core"
	"medstat/domain/dataset"
	"medstat/domain/run"
	"medstat/internal"
	"medstat/internal/correlation"
	"medstat/internal/errors"
	"medstat/internal/imputation"
	"medstat/internal/labeling"
	"medstat/internal/session"
	"medstat/internal/smoothing"
	"medstat/ports"
)

// Presenter shows stage results to the operator as they become available
type Presenter interface {
	Distribution(d analysis.LabelDistribution)
	Ranking(r analysis.Ranking)
	Report(r *analysis.EvaluationReport)
	Warning(msg string)
}

// PipelineConfig holds the analysis parameters of one run
type PipelineConfig struct {
	LabelMarker  string
	LabelColumn  string
	TopN         int
	PlotFeatures int
	Imputer      *imputation.Imputer
	Training     TrainingConfig
}

// PipelineService runs load, label, rank, train and plot in order
type PipelineService struct {
	config    PipelineConfig
	source    ports.DatasetSource
	artifacts *session.ArtifactManager
	presenter Presenter
	training  *TrainingService
	logger    *internal.Logger
}

// PipelineResult carries the run record plus the in-memory models
type PipelineResult struct {
	Manifest   *run.Manifest
	Dataset    *dataset.Dataset
	Features   *dataset.FeatureMatrix
	Unbalanced *CycleResult
	Balanced   *CycleResult
	Timings    []StageTiming
}

// NewPipelineService wires a pipeline
func NewPipelineService(config PipelineConfig, source ports.DatasetSource, artifacts *session.ArtifactManager, presenter Presenter, logger *internal.Logger) *PipelineService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Imputer == nil {
		config.Imputer = imputation.New(imputation.StrategyMedian, 0)
	}
	return &PipelineService{
		config:    config,
		source:    source,
		artifacts: artifacts,
		presenter: presenter,
		training:  NewTrainingService(config.Training, logger),
		logger:    logger,
	}
}

// Run executes the pipeline. Load, labeling and ranking failures abort the
// run. A failure of the balanced cycle, or cancellation during plotting, is
// returned after the reports are written. Chart write failures are warnings
// on the manifest.
func (s *PipelineService) Run(ctx context.Context) (*PipelineResult, error) {
	manifest := run.NewManifest(s.source.Describe(), s.config.Training.Seed)
	manifest.Imputation = s.config.Imputer.Describe()
	runner := NewStageRunner(s.logger)
	result := &PipelineResult{Manifest: manifest}
	s.logger.Info("[PipelineService] run %s over %s", manifest.RunID, manifest.Source)

	var ds *dataset.Dataset
	err := runner.Run(ctx, "load", func(ctx context.Context) error {
		var err error
		ds, err = s.source.Load(ctx)
		if err != nil {
			return err
		}
		if ds.NumRows() == 0 {
			return errors.InsufficientData("dataset has no rows", core.ErrInsufficientData)
		}
		manifest.Rows = ds.NumRows()
		manifest.DatasetHash = ds.Fingerprint()
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Dataset = ds

	err = runner.Run(ctx, "label", func(ctx context.Context) error {
		deriver := labeling.NewDeriver(s.config.LabelMarker, s.config.LabelColumn, s.logger)
		res, err := deriver.Derive(ds)
		if err != nil {
			return errors.WithCode(errors.CodeValidationError, err)
		}
		if len(res.Candidates) > 1 {
			s.warn(manifest, fmt.Sprintf("marker %q matches columns %v; using %q", s.config.LabelMarker, res.Candidates, res.SourceColumn))
		}
		manifest.Labels = res.Distribution
		s.presenter.Distribution(res.Distribution)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = runner.Run(ctx, "rank", func(ctx context.Context) error {
		fills, err := s.config.Imputer.Dataset(ds)
		if err != nil {
			return err
		}
		s.logger.Debug("[PipelineService] imputed %d columns", len(fills))

		ranking, err := correlation.Rank(ds, dataset.LabelColumn, s.config.TopN)
		if err != nil {
			return errors.InsufficientData("correlation ranking failed", err)
		}
		manifest.Ranking = ranking
		s.presenter.Ranking(ranking)
		s.artifacts.SaveCorrelationChart(ranking, manifest)

		result.Features, err = dataset.NewFeatureMatrix(ds, ranking.Features(), dataset.LabelColumn)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = runner.Run(ctx, "train_unbalanced", func(ctx context.Context) error {
		res, err := s.training.TrainUnbalanced(ctx, result.Features)
		if err != nil {
			return errors.InsufficientData("unbalanced training failed", err)
		}
		result.Unbalanced = res
		manifest.Unbalanced = res.Report
		s.presenter.Report(res.Report)
		return nil
	})
	if err != nil {
		s.finish(ctx, result, runner)
		return result, err
	}

	err = runner.Run(ctx, "train_balanced", func(ctx context.Context) error {
		res, err := s.training.TrainBalanced(ctx, result.Features)
		if err != nil {
			return errors.InsufficientData("SMOTE training failed", err)
		}
		result.Balanced = res
		manifest.Balanced = res.Report
		s.presenter.Report(res.Report)
		return nil
	})
	if err != nil {
		s.finish(ctx, result, runner)
		return result, err
	}

	err = runner.Run(ctx, "plot", func(ctx context.Context) error {
		return s.plotProbabilities(ctx, result)
	})

	s.finish(ctx, result, runner)
	return result, err
}

// plotProbabilities charts P(complication) on the balanced cycle's
// held-out rows against each of the leading ranked features. Chart
// failures are warnings; only cancellation is returned.
func (s *PipelineService) plotProbabilities(ctx context.Context, result *PipelineResult) error {
	cycle := result.Balanced
	proba, err := cycle.Model.PositiveProba(cycle.TestX)
	if err != nil {
		s.warn(result.Manifest, fmt.Sprintf("probability prediction failed: %v", err))
		return nil
	}

	features := result.Features.FeatureNames
	n := min(s.config.PlotFeatures, len(features))
	for j := 0; j < n; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		values := make([]float64, len(cycle.TestX))
		for i, row := range cycle.TestX {
			values[i] = row[j]
		}
		series := analysis.ProbabilitySeries{
			Feature:       features[j],
			Values:        values,
			Probabilities: proba,
		}
		smoothed, err := smoothing.Lowess(values, proba, smoothing.DefaultFrac, smoothing.DefaultIterations)
		if err != nil {
			s.warn(result.Manifest, fmt.Sprintf("trend for %s skipped: %v", features[j], err))
		} else {
			series.Smoothed = smoothed
		}
		s.artifacts.SaveProbabilityChart(series, result.Manifest)
	}
	return nil
}

func (s *PipelineService) finish(ctx context.Context, result *PipelineResult, runner *StageRunner) {
	s.artifacts.SaveReports(ctx, result.Manifest)
	result.Manifest.Complete()
	result.Timings = runner.Timings()
	if err := result.Manifest.Validate(); err != nil {
		s.logger.Warn("[PipelineService] manifest incomplete: %v", err)
	}
}

func (s *PipelineService) warn(m *run.Manifest, msg string) {
	m.AddWarning(msg)
	s.presenter.Warning(msg)
	s.logger.Warn("[PipelineService] %s", msg)
}
