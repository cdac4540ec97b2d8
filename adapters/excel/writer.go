package excel

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medstat/domain/analysis"
	"medstat/domain/dataset"
	"medstat/domain/run"
	"medstat/internal/errors"
)

// WorkbookSink writes the ranking and both evaluation reports to an XLSX workbook
type WorkbookSink struct {
	fileName string
}

// NewWorkbookSink creates a sink writing fileName (default analysis_report.xlsx)
func NewWorkbookSink(fileName string) *WorkbookSink {
	if fileName == "" {
		fileName = "analysis_report.xlsx"
	}
	return &WorkbookSink{fileName: fileName}
}

func (s *WorkbookSink) FileName() string { return s.fileName }
func (s *WorkbookSink) Kind() string     { return run.ArtifactWorkbook }

// WriteReport writes sheets correlations, unbalanced and smote
func (s *WorkbookSink) WriteReport(ctx context.Context, m *run.Manifest, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "correlations"); err != nil {
		return errors.Wrap(err, "failed to name correlations sheet")
	}
	rows := [][]interface{}{{"rank", "feature", "correlation"}}
	for i, fc := range m.Ranking {
		rows = append(rows, []interface{}{i + 1, fc.Feature, excelFloat(fc.Coefficient)})
	}
	if err := writeRows(f, "correlations", rows); err != nil {
		return err
	}

	for _, sheet := range []struct {
		name   string
		report *analysis.EvaluationReport
	}{
		{analysis.CycleUnbalanced, m.Unbalanced},
		{analysis.CycleBalanced, m.Balanced},
	} {
		if sheet.report == nil {
			continue
		}
		if _, err := f.NewSheet(sheet.name); err != nil {
			return errors.Wrapf(err, "failed to create sheet %s", sheet.name)
		}
		if err := writeRows(f, sheet.name, reportRows(sheet.report)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ArtifactWriteFailed(path, err)
	}
	return nil
}

func reportRows(r *analysis.EvaluationReport) [][]interface{} {
	rows := [][]interface{}{
		{"accuracy", r.Accuracy},
		{"train_size", r.TrainSize},
		{"test_size", r.TestSize},
		{},
		{"class", "precision", "recall", "f1-score", "support"},
	}
	all := append(append([]analysis.ClassMetrics{}, r.Classes...), r.MacroAvg, r.WeightedAvg)
	for _, c := range all {
		rows = append(rows, []interface{}{c.Label, c.Precision, c.Recall, c.F1, c.Support})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "invalid cell coordinates")
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return errors.Wrapf(err, "failed to write row %d of %s", i+1, sheet)
		}
	}
	return nil
}

// excelFloat leaves NaN cells empty; excelize cannot store NaN
func excelFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}

// WriteDatasetFile writes ds as CSV or XLSX depending on the path extension
func WriteDatasetFile(ds *dataset.Dataset, path string) error {
	header := ds.ColumnNames()
	records := make([][]string, 0, ds.NumRows()+1)
	records = append(records, header)
	for i := 0; i < ds.NumRows(); i++ {
		rec := make([]string, len(header))
		for j, c := range ds.Columns() {
			rec[j] = formatCell(c, i)
		}
		records = append(records, rec)
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		file, err := os.Create(path)
		if err != nil {
			return errors.ArtifactWriteFailed(path, err)
		}
		defer file.Close()
		w := csv.NewWriter(file)
		if err := w.WriteAll(records); err != nil {
			return errors.ArtifactWriteFailed(path, err)
		}
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		rows[i] = row
	}
	if err := writeRows(f, "Sheet1", rows); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return errors.ArtifactWriteFailed(path, err)
	}
	return nil
}

func formatCell(c *dataset.Column, i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.Kind {
	case dataset.KindNumeric:
		return strconv.FormatFloat(c.Float[i], 'f', -1, 64)
	case dataset.KindBool:
		return strconv.FormatBool(c.Float[i] != 0)
	case dataset.KindTemporal:
		return c.Time[i].Time.Format(time.RFC3339)
	default:
		return c.Text[i].String
	}
}
