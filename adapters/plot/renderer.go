// Package plot renders the diagnostic charts as PNG files with gonum/plot.
package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"medstat/domain/analysis"
)

// Chart text
const (
	CorrelationTitle  = "Связь признаков с осложнениями"
	CorrelationXLabel = "Коэффициент корреляции"
	CorrelationYLabel = "Признак"
	ProbabilityTitle  = "Вероятность осложнений от признака: %s"
	ProbabilityYLabel = "Вероятность"
)

var (
	barColor     = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	scatterColor = color.RGBA{R: 76, G: 114, B: 176, A: 90}
	curveColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// PNGRenderer implements ports.ChartRenderer
type PNGRenderer struct{}

// NewPNGRenderer creates a renderer
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

func (r *PNGRenderer) Extension() string { return ".png" }

// RenderCorrelationChart draws a horizontal bar per feature, strongest on top
func (r *PNGRenderer) RenderCorrelationChart(ranking analysis.Ranking, path string) error {
	if len(ranking) == 0 {
		return fmt.Errorf("no features to chart")
	}
	p := plot.New()
	p.Title.Text = CorrelationTitle
	p.X.Label.Text = CorrelationXLabel
	p.Y.Label.Text = CorrelationYLabel

	// The nominal axis grows upward, so reverse to keep rank 1 at the top.
	n := len(ranking)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, fc := range ranking {
		v := fc.Coefficient
		if math.IsNaN(v) {
			v = 0
		}
		values[n-1-i] = v
		names[n-1-i] = fc.Feature
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())
	p.NominalY(names...)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// RenderProbabilityChart draws predicted probabilities against feature
// values with the smoothed trend on top
func (r *PNGRenderer) RenderProbabilityChart(series analysis.ProbabilitySeries, path string) error {
	if len(series.Values) != len(series.Probabilities) {
		return fmt.Errorf("series %s has %d values and %d probabilities",
			series.Feature, len(series.Values), len(series.Probabilities))
	}
	if len(series.Values) == 0 {
		return fmt.Errorf("series %s is empty", series.Feature)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf(ProbabilityTitle, series.Feature)
	p.X.Label.Text = series.Feature
	p.Y.Label.Text = ProbabilityYLabel

	pts := make(plotter.XYs, len(series.Values))
	for i := range series.Values {
		pts[i] = plotter.XY{X: series.Values[i], Y: series.Probabilities[i]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(plotter.NewGrid(), scatter)

	if len(series.Smoothed) > 1 {
		curve := make(plotter.XYs, len(series.Smoothed))
		for i, pt := range series.Smoothed {
			curve[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return fmt.Errorf("failed to build trend line: %w", err)
		}
		line.Color = curveColor
		line.Width = vg.Points(2)
		p.Add(line)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
