package container

import (
	"io"

	"medstat/adapters/charts"
	"medstat/adapters/excel"
	"medstat/adapters/manifest"
	"medstat/adapters/markdown"
	"medstat/adapters/plot"
	"medstat/adapters/sqldb"
	"medstat/app"
	"medstat/internal"
	"medstat/internal/config"
	"medstat/internal/console"
	"medstat/internal/errors"
	"medstat/internal/imputation"
	"medstat/internal/session"
	"medstat/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Source    ports.DatasetSource
	Store     *session.LocalStore
	Renderers []ports.ChartRenderer
	Sinks     []ports.ReportSink

	// Services
	Printer   *console.Printer
	Artifacts *session.ArtifactManager
	Pipeline  *app.PipelineService
}

// New creates a new dependency injection container. Console output goes
// to out; logs go to the logger.
func New(cfg *config.Config, logger *internal.Logger, out io.Writer) (*Container, error) {
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}
	c := &Container{Config: cfg, Logger: logger}

	source, err := NewSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Source = source

	c.Store, err = session.NewLocalStore(cfg.Output.Dir)
	if err != nil {
		return nil, errors.ArtifactWriteFailed(cfg.Output.Dir, err)
	}

	c.Renderers = []ports.ChartRenderer{plot.NewPNGRenderer()}
	if cfg.Output.HTMLCharts {
		c.Renderers = append(c.Renderers, charts.NewHTMLRenderer())
	}

	if cfg.Output.XLSXReport {
		c.Sinks = append(c.Sinks, excel.NewWorkbookSink(""))
	}
	if cfg.Output.Summary {
		c.Sinks = append(c.Sinks, markdown.NewMarkdownSink(), markdown.NewHTMLSink())
	}
	// manifest last so it lists every other artifact
	if cfg.Output.Manifest {
		c.Sinks = append(c.Sinks, manifest.NewJSONSink())
	}

	c.Printer = console.NewPrinter(out)
	c.Artifacts = session.NewArtifactManager(c.Store, c.Renderers, c.Sinks, logger, c.Printer.Saved)

	strategy, err := imputation.ParseStrategy(cfg.Analysis.ImputeStrategy)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	a := cfg.Analysis
	c.Pipeline = app.NewPipelineService(app.PipelineConfig{
		LabelMarker:  a.LabelMarker,
		LabelColumn:  a.LabelColumn,
		TopN:         a.TopN,
		PlotFeatures: a.PlotFeatures,
		Imputer:      imputation.New(strategy, a.ImputeConstant),
		Training: app.TrainingConfig{
			NTrees:   a.NTrees,
			MaxDepth: a.MaxDepth,
			TestSize: a.TestSize,
			Seed:     a.Seed,
			SmoteK:   a.SmoteK,
		},
	}, c.Source, c.Artifacts, c.Printer, logger)

	return c, nil
}

// NewSource picks the dataset source: a data file when configured,
// the database otherwise
func NewSource(cfg *config.Config, logger *internal.Logger) (ports.DatasetSource, error) {
	if cfg.Source.DataFile != "" {
		return excel.NewDataReader(cfg.Source.DataFile, cfg.Source.Sheet, logger), nil
	}
	source, err := sqldb.NewSource(cfg.Database.Driver, cfg.Database.URL, cfg.Database.Table, logger)
	if err != nil {
		return nil, err
	}
	return source, nil
}
