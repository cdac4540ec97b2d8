// Package console prints the analysis results for a human at a terminal.
package console

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"medstat/domain/analysis"
	"medstat/domain/dataset"
	"medstat/domain/run"
	"medstat/internal/profiling"
)

// Headings printed before each section
const (
	HeadingDistribution = "Распределение осложнений:"
	HeadingRanking      = "Топ-%d признаков, связанных с осложнениями:"
	HeadingUnbalanced   = "Метрики модели (без балансировки):"
	HeadingBalanced     = "Метрики модели (после SMOTE):"
	LabelAccuracy       = "Точность"
	LabelSaved          = "График сохранён"
)

// Printer writes tables and headings to an output stream
type Printer struct {
	out     io.Writer
	heading *color.Color
	ok      *color.Color
	warn    *color.Color
}

// NewPrinter creates a printer; color is disabled automatically when out is not a terminal
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		heading: color.New(color.FgYellow, color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgRed),
	}
}

// Distribution prints the label counts
func (p *Printer) Distribution(d analysis.LabelDistribution) {
	p.heading.Fprintln(p.out, HeadingDistribution)
	table := p.table([]string{d.Column, "count"})
	table.Append([]string{"0", strconv.Itoa(d.Negative)})
	table.Append([]string{"1", strconv.Itoa(d.Positive)})
	table.Render()
}

// Ranking prints the top correlated features
func (p *Printer) Ranking(r analysis.Ranking) {
	fmt.Fprintln(p.out)
	p.heading.Fprintf(p.out, HeadingRanking+"\n", len(r))
	table := p.table([]string{"#", "feature", dataset.LabelColumn})
	for i, fc := range r {
		table.Append([]string{strconv.Itoa(i + 1), fc.Feature, formatCoef(fc.Coefficient)})
	}
	table.Render()
}

// Report prints accuracy to four decimals and the classification table.
// The heading is chosen by the report name.
func (p *Printer) Report(r *analysis.EvaluationReport) {
	fmt.Fprintln(p.out)
	p.heading.Fprintln(p.out, reportHeading(r.Name))
	fmt.Fprintf(p.out, "%s: %.4f\n", LabelAccuracy, r.Accuracy)
	table := p.table([]string{"", "precision", "recall", "f1-score", "support"})
	rows := append(append([]analysis.ClassMetrics{}, r.Classes...), r.MacroAvg, r.WeightedAvg)
	for _, c := range rows {
		table.Append([]string{
			c.Label,
			fmt.Sprintf("%.2f", c.Precision),
			fmt.Sprintf("%.2f", c.Recall),
			fmt.Sprintf("%.2f", c.F1),
			strconv.Itoa(c.Support),
		})
	}
	table.Render()
}

// Saved prints one line per written artifact
func (p *Printer) Saved(a run.Artifact) {
	p.ok.Fprintf(p.out, "%s: %s\n", LabelSaved, a.Path)
}

// Warning prints a non-fatal problem
func (p *Printer) Warning(msg string) {
	p.warn.Fprintf(p.out, "warning: %s\n", msg)
}

// Schema prints column names, kinds and missing counts
func (p *Printer) Schema(ds *dataset.Dataset, candidates []string) {
	p.heading.Fprintf(p.out, "%s: %d rows, %d columns\n", ds.Source, ds.NumRows(), ds.NumColumns())
	marked := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		marked[c] = true
	}
	table := p.table([]string{"column", "kind", "missing", "label source"})
	for _, c := range ds.Columns() {
		mark := ""
		if marked[c.Name] {
			mark = "*"
		}
		table.Append([]string{c.Name, string(c.Kind), strconv.Itoa(c.MissingCount()), mark})
	}
	table.Render()
}

// Profiles prints summary statistics for numeric columns
func (p *Printer) Profiles(profiles []profiling.ColumnProfile) {
	table := p.table([]string{"column", "n", "missing", "mean", "sd", "min", "median", "max", "skew", "outliers"})
	for _, pr := range profiles {
		table.Append([]string{
			pr.Name,
			strconv.Itoa(pr.Observed),
			strconv.Itoa(pr.Missing),
			formatStat(pr.Mean),
			formatStat(pr.StdDev),
			formatStat(pr.Min),
			formatStat(pr.Median),
			formatStat(pr.Max),
			formatStat(pr.Skewness),
			strconv.Itoa(pr.Outliers),
		})
	}
	table.Render()
}

func (p *Printer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func reportHeading(name string) string {
	switch name {
	case analysis.CycleUnbalanced:
		return HeadingUnbalanced
	case analysis.CycleBalanced:
		return HeadingBalanced
	}
	return name + ":"
}

func formatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatCoef(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
