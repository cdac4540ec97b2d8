// Package markdown writes the human-readable run summary as Markdown and HTML.
package markdown

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"medstat/domain/analysis"
	"medstat/domain/run"
	"medstat/internal/errors"
)

const summaryTitle = "Анализ осложнений"

// Render builds the Markdown summary of a run
func Render(m *run.Manifest) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", summaryTitle)
	fmt.Fprintf(&b, "- run: `%s`\n", m.RunID)
	fmt.Fprintf(&b, "- source: `%s`\n", m.Source)
	fmt.Fprintf(&b, "- rows: %d\n", m.Rows)
	fmt.Fprintf(&b, "- seed: %d\n", m.Seed)
	fmt.Fprintf(&b, "- imputation: %s\n\n", m.Imputation)

	b.WriteString("## Распределение осложнений\n\n")
	b.WriteString("| complications | count |\n|---|---:|\n")
	fmt.Fprintf(&b, "| 0 | %d |\n| 1 | %d |\n\n", m.Labels.Negative, m.Labels.Positive)

	fmt.Fprintf(&b, "## Топ-%d признаков, связанных с осложнениями\n\n", len(m.Ranking))
	b.WriteString("| # | feature | correlation |\n|---:|---|---:|\n")
	for i, fc := range m.Ranking {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escape(fc.Feature), formatCoef(fc.Coefficient))
	}
	b.WriteString("\n")

	writeReport(&b, "Метрики модели (без балансировки)", m.Unbalanced)
	writeReport(&b, "Метрики модели (после SMOTE)", m.Balanced)

	if len(m.Artifacts) > 0 {
		b.WriteString("## Файлы\n\n")
		for _, a := range m.Artifacts {
			fmt.Fprintf(&b, "- %s: [%s](%s)\n", a.Kind, filepath.Base(a.Path), filepath.Base(a.Path))
		}
		b.WriteString("\n")
	}
	if len(m.Warnings) > 0 {
		b.WriteString("## Предупреждения\n\n")
		for _, w := range m.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func writeReport(b *strings.Builder, heading string, r *analysis.EvaluationReport) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if r == nil {
		b.WriteString("_не выполнено_\n\n")
		return
	}
	fmt.Fprintf(b, "Точность: **%.4f** (train %d, test %d)\n\n", r.Accuracy, r.TrainSize, r.TestSize)
	b.WriteString("| class | precision | recall | f1-score | support |\n|---|---:|---:|---:|---:|\n")
	rows := append(append([]analysis.ClassMetrics{}, r.Classes...), r.MacroAvg, r.WeightedAvg)
	for _, c := range rows {
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f | %d |\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
}

func formatCoef(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ToHTML converts Markdown to a standalone HTML page
func ToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: summaryTitle,
	})
	return markdown.ToHTML(md, p, renderer)
}

// Sink implements ports.ReportSink for summary.md or summary.html
type Sink struct {
	fileName string
	asHTML   bool
}

// NewMarkdownSink writes summary.md
func NewMarkdownSink() *Sink { return &Sink{fileName: "summary.md"} }

// NewHTMLSink writes summary.html
func NewHTMLSink() *Sink { return &Sink{fileName: "summary.html", asHTML: true} }

func (s *Sink) FileName() string { return s.fileName }
func (s *Sink) Kind() string     { return run.ArtifactSummary }

// WriteReport renders and writes the summary
func (s *Sink) WriteReport(ctx context.Context, m *run.Manifest, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content := Render(m)
	if s.asHTML {
		content = ToHTML(content)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.ArtifactWriteFailed(path, err)
	}
	return nil
}
