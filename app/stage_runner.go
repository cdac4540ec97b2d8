package app

import (
	"context"
	"time"

	"medstat/internal"
	"medstat/internal/errors"
)

// StageRunner executes pipeline stages in order, logging their duration.
// Stages are strictly sequential; a failed stage stops the run.
type StageRunner struct {
	logger  *internal.Logger
	timings []StageTiming
}

// StageTiming records how long one stage took
type StageTiming struct {
	Name     string
	Duration time.Duration
	Err      error
}

// NewStageRunner creates a new stage runner
func NewStageRunner(logger *internal.Logger) *StageRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StageRunner{logger: logger}
}

// Run executes fn as the named stage
func (r *StageRunner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "stage %s not started", name)
	}
	start := time.Now()
	r.logger.Debug("[StageRunner] %s: started", name)

	err := fn(ctx)
	elapsed := time.Since(start)
	r.timings = append(r.timings, StageTiming{Name: name, Duration: elapsed, Err: err})
	if err != nil {
		r.logger.Error("[StageRunner] %s: failed after %s: %v", name, elapsed.Round(time.Millisecond), err)
		return errors.Wrapf(err, "stage %s failed", name)
	}
	r.logger.Info("[StageRunner] %s: done in %s", name, elapsed.Round(time.Millisecond))
	return nil
}

// Timings returns the stages run so far
func (r *StageRunner) Timings() []StageTiming {
	return r.timings
}
