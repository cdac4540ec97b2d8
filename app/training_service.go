package app

import (
	"context"
	"fmt"

	"medstat/domain/analysis"
	"medstat/domain/dataset"
	"medstat/internal"
	"medstat/internal/ml"
)

// TrainingConfig holds the model and resampling parameters
type TrainingConfig struct {
	NTrees   int
	MaxDepth int
	TestSize float64
	Seed     int64
	SmoteK   int
}

// TrainingService runs the two training/evaluation cycles
type TrainingService struct {
	config TrainingConfig
	logger *internal.Logger
}

// CycleResult is one trained model with its held-out evaluation
type CycleResult struct {
	Report *analysis.EvaluationReport
	Model  *ml.RandomForest
	TestX  [][]float64
	TestY  []int
}

// NewTrainingService creates a training service
func NewTrainingService(config TrainingConfig, logger *internal.Logger) *TrainingService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TrainingService{config: config, logger: logger}
}

// TrainUnbalanced holds out a stratified test set and fits on the rest as is
func (s *TrainingService) TrainUnbalanced(ctx context.Context, m *dataset.FeatureMatrix) (*CycleResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	split, err := ml.StratifiedSplit(m.Labels, s.config.TestSize, s.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("stratified split: %w", err)
	}
	return s.fitAndEvaluate(ctx, analysis.CycleUnbalanced, m.Subset(split.Train), m.Subset(split.Test), m.NumSamples())
}

// TrainBalanced oversamples the minority class with SMOTE over the whole
// matrix, then holds out a random (non-stratified) test set
func (s *TrainingService) TrainBalanced(ctx context.Context, m *dataset.FeatureMatrix) (*CycleResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	X, y, err := ml.NewSMOTE(s.config.SmoteK, s.config.Seed).Resample(m.Data, m.Labels)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[TrainingService] SMOTE resampled %d rows to %d", m.NumSamples(), len(X))

	resampled := &dataset.FeatureMatrix{Data: X, Labels: y, FeatureNames: m.FeatureNames}
	split, err := ml.RandomSplit(len(X), s.config.TestSize, s.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("random split: %w", err)
	}
	return s.fitAndEvaluate(ctx, analysis.CycleBalanced, resampled.Subset(split.Train), resampled.Subset(split.Test), len(X))
}

func (s *TrainingService) fitAndEvaluate(ctx context.Context, name string, train, test *dataset.FeatureMatrix, total int) (*CycleResult, error) {
	forest := ml.NewRandomForest(
		ml.WithNEstimators(s.config.NTrees),
		ml.WithForestMaxDepth(s.config.MaxDepth),
		ml.WithForestSeed(s.config.Seed),
	)
	if err := forest.Fit(ctx, train.Data, train.Labels); err != nil {
		return nil, fmt.Errorf("fit %s forest: %w", name, err)
	}
	pred, err := forest.Predict(test.Data)
	if err != nil {
		return nil, err
	}
	report, err := ml.ClassificationReport(name, test.Labels, pred)
	if err != nil {
		return nil, err
	}
	report.TrainSize = train.NumSamples()
	report.SampledTotal = total

	s.logger.Info("[TrainingService] %s: accuracy %.4f on %d held-out rows", name, report.Accuracy, report.TestSize)
	return &CycleResult{Report: report, Model: forest, TestX: test.Data, TestY: test.Labels}, nil
}
