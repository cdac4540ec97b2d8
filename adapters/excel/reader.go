package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medstat/domain/dataset"
	"medstat/internal"
	"medstat/internal/errors"
)

// DataReader handles reading Excel and CSV files into a dataset
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files.
// An empty sheet selects Sheet1, or the first sheet when Sheet1 is absent.
func NewDataReader(filePath, sheet string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet, logger: logger}
}

// Describe names the source for logs and the manifest
func (r *DataReader) Describe() string {
	return fmt.Sprintf("file:%s", r.filePath)
}

// Load reads the file and returns a dataset with lower-cased column names
func (r *DataReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	ds, err := RowsToDataset(r.Describe(), rows)
	if err != nil {
		return nil, err
	}
	ds.LowercaseNames()
	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), ds.NumColumns(), ds.NumRows())
	return ds, nil
}

// readExcelRows reads all rows of the selected sheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = "Sheet1"
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			sheet = f.GetSheetName(0)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads CSV rows, tolerating ragged lines
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

// RowsToDataset converts a header row plus string rows into a typed dataset.
// A column is numeric when every non-missing cell parses as a number,
// temporal when every non-missing cell parses as a date, and text otherwise.
// Blank cells and NA tokens are missing in every column kind.
func RowsToDataset(source string, rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 1 {
		return nil, errors.InvalidInput("file must have at least a header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("unnamed: %d", i)
		}
	}
	data := rows[1:]

	cell := func(row []string, j int) string {
		if j < len(row) {
			return strings.TrimSpace(row[j])
		}
		return ""
	}

	kinds := make([]dataset.ColumnKind, len(headers))
	for j := range headers {
		kinds[j] = inferColumnKind(data, j, cell)
	}

	b, err := dataset.NewBuilder(source, headers, kinds)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(headers))
	for _, row := range data {
		for j := range headers {
			raw := cell(row, j)
			switch {
			case raw != "" && dataset.IsMissingToken(raw):
				values[j] = nil
			case kinds[j] == dataset.KindText && j < len(row) && row[j] != "":
				// text keeps its surrounding whitespace
				values[j] = row[j]
			case raw == "":
				values[j] = nil
			default:
				values[j] = raw
			}
		}
		if err := b.AppendRow(values); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func inferColumnKind(data [][]string, j int, cell func([]string, int) string) dataset.ColumnKind {
	numeric, temporal, seen := true, true, false
	for _, row := range data {
		v := cell(row, j)
		if dataset.IsMissingToken(v) {
			continue
		}
		seen = true
		if _, ok := dataset.ParseFloat(v); !ok {
			numeric = false
		}
		if _, ok := dataset.ParseTime(v); !ok {
			temporal = false
		}
		if !numeric && !temporal {
			return dataset.KindText
		}
	}
	switch {
	case !seen:
		return dataset.KindText
	case numeric:
		return dataset.KindNumeric
	case temporal:
		return dataset.KindTemporal
	default:
		return dataset.KindText
	}
}
