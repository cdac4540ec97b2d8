// Package charts renders interactive HTML twins of the PNG charts with go-echarts.
package charts

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"medstat/adapters/plot"
	"medstat/domain/analysis"
)

// ChartConfig holds configuration for charts
type ChartConfig struct {
	Width  string
	Height string
	Theme  string
	Colors []string
}

// DefaultChartConfig returns default chart configuration
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "540px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#EE6666"},
	}
}

// HTMLRenderer implements ports.ChartRenderer
type HTMLRenderer struct {
	config ChartConfig
}

// NewHTMLRenderer creates a renderer with the default config
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{config: DefaultChartConfig()}
}

func (r *HTMLRenderer) Extension() string { return ".html" }

func (r *HTMLRenderer) globalOpts(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  r.config.Width,
			Height: r.config.Height,
			Theme:  r.config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithColorsOpts(opts.Colors(r.config.Colors)),
	}
}

// RenderCorrelationChart creates a horizontal bar chart, strongest feature on top
func (r *HTMLRenderer) RenderCorrelationChart(ranking analysis.Ranking, path string) error {
	if len(ranking) == 0 {
		return fmt.Errorf("no features to chart")
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(r.globalOpts(plot.CorrelationTitle),
		charts.WithXAxisOpts(opts.XAxis{Name: plot.CorrelationXLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: plot.CorrelationYLabel}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)...)

	n := len(ranking)
	labels := make([]string, n)
	data := make([]opts.BarData, n)
	for i, fc := range ranking {
		v := fc.Coefficient
		if math.IsNaN(v) {
			v = 0
		}
		labels[n-1-i] = fc.Feature
		data[n-1-i] = opts.BarData{Name: fc.Feature, Value: v}
	}
	bar.SetXAxis(labels).
		AddSeries(plot.CorrelationXLabel, data).
		XYReversal()

	return render(bar, path)
}

// RenderProbabilityChart creates a scatter of probabilities with the smoothed curve overlaid
func (r *HTMLRenderer) RenderProbabilityChart(series analysis.ProbabilitySeries, path string) error {
	if len(series.Values) != len(series.Probabilities) || len(series.Values) == 0 {
		return fmt.Errorf("series %s has %d values and %d probabilities",
			series.Feature, len(series.Values), len(series.Probabilities))
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(r.globalOpts(fmt.Sprintf(plot.ProbabilityTitle, series.Feature)),
		charts.WithXAxisOpts(opts.XAxis{Name: series.Feature, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: plot.ProbabilityYLabel, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)

	points := make([]opts.ScatterData, len(series.Values))
	for i := range series.Values {
		points[i] = opts.ScatterData{
			Value:      []interface{}{series.Values[i], series.Probabilities[i]},
			SymbolSize: 6,
		}
	}
	scatter.AddSeries(plot.ProbabilityYLabel, points)

	if len(series.Smoothed) > 1 {
		line := charts.NewLine()
		curve := make([]opts.LineData, len(series.Smoothed))
		for i, pt := range series.Smoothed {
			curve[i] = opts.LineData{Value: []interface{}{pt.X, pt.Y}}
		}
		line.AddSeries("LOWESS", curve, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		scatter.Overlap(line)
	}

	return render(scatter, path)
}

type renderer interface {
	Render(w io.Writer) error
}

func render(c renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := c.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
