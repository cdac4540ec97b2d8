package ports

import (
	"medstat/domain/analysis"
)

// ChartRenderer draws the diagnostic charts. Analytical stages never touch
// the filesystem directly; they hand data to a renderer and a target path.
type ChartRenderer interface {
	// Extension is the file extension the renderer produces, e.g. ".png"
	Extension() string

	RenderCorrelationChart(ranking analysis.Ranking, path string) error
	RenderProbabilityChart(series analysis.ProbabilitySeries, path string) error
}
