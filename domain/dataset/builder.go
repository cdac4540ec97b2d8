package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Builder accumulates rows of loosely typed values into typed columns.
// Loaders decide column kinds up front and append rows as they scan.
type Builder struct {
	source string
	names  []string
	kinds  []ColumnKind
	float  [][]float64
	text   [][]sql.NullString
	times  [][]sql.NullTime
	rows   int
}

// NewBuilder creates a builder for the given schema
func NewBuilder(source string, names []string, kinds []ColumnKind) (*Builder, error) {
	if len(names) != len(kinds) {
		return nil, fmt.Errorf("schema mismatch: %d names, %d kinds", len(names), len(kinds))
	}
	return &Builder{
		source: source,
		names:  append([]string(nil), names...),
		kinds:  append([]ColumnKind(nil), kinds...),
		float:  make([][]float64, len(names)),
		text:   make([][]sql.NullString, len(names)),
		times:  make([][]sql.NullTime, len(names)),
	}, nil
}

// AppendRow converts and appends one row. Values that cannot be converted
// to the column kind become missing rather than failing the load.
func (b *Builder) AppendRow(values []any) error {
	if len(values) != len(b.names) {
		return fmt.Errorf("row %d has %d values, expected %d", b.rows, len(values), len(b.names))
	}
	for j, v := range values {
		switch b.kinds[j] {
		case KindNumeric:
			b.float[j] = append(b.float[j], toFloat(v))
		case KindBool:
			b.float[j] = append(b.float[j], toBoolFloat(v))
		case KindTemporal:
			b.times[j] = append(b.times[j], toTime(v))
		default:
			b.text[j] = append(b.text[j], toText(v))
		}
	}
	b.rows++
	return nil
}

// Build materializes the dataset
func (b *Builder) Build() (*Dataset, error) {
	ds := New(b.source, b.rows)
	for j, name := range b.names {
		var col *Column
		switch b.kinds[j] {
		case KindNumeric:
			col = NewNumericColumn(name, nonNilFloat(b.float[j]))
		case KindBool:
			col = NewBoolColumn(name, nonNilFloat(b.float[j]))
		case KindTemporal:
			col = NewTemporalColumn(name, append([]sql.NullTime{}, b.times[j]...))
		default:
			col = NewTextColumn(name, append([]sql.NullString{}, b.text[j]...))
		}
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func nonNilFloat(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

// IsMissingToken reports whether a cell is blank or one of the NA markers
// spreadsheets and CSV exports use for an absent value
func IsMissingToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "#n/a", "nan", "null", "none":
		return true
	}
	return false
}

// ParseFloat parses a cell as a number. Missing tokens and anything that
// does not parse return NaN and false; use IsMissingToken to tell them apart.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsMissingToken(s) {
		return math.NaN(), false
	}
	if strings.Contains(s, ",") {
		var ok bool
		if s, ok = decimalComma(s); !ok {
			return math.NaN(), false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// decimalComma rewrites a single decimal comma ("3,5") to a point. Values
// that may be thousands grouping ("1,000", "1,000,000") or mix both
// separators are rejected rather than guessed.
func decimalComma(s string) (string, bool) {
	if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
		return "", false
	}
	i := strings.IndexByte(s, ',')
	frac := s[i+1:]
	if len(frac) == 3 && strings.Trim(frac, "0123456789") == "" {
		return "", false
	}
	return s[:i] + "." + frac, true
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case []byte:
		f, _ := ParseFloat(string(x))
		return f
	case string:
		f, _ := ParseFloat(x)
		return f
	default:
		return math.NaN()
	}
}

func toBoolFloat(v any) float64 {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case string, []byte:
		s := strings.ToLower(strings.TrimSpace(asString(x)))
		switch s {
		case "true", "t", "yes", "1":
			return 1
		case "false", "f", "no", "0":
			return 0
		}
		return math.NaN()
	default:
		return toFloat(v)
	}
}

func asString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func toText(v any) sql.NullString {
	switch x := v.(type) {
	case nil:
		return sql.NullString{}
	case string:
		return sql.NullString{String: x, Valid: true}
	case []byte:
		return sql.NullString{String: string(x), Valid: true}
	default:
		// Non-string values in a text column are kept as null so that
		// label derivation only ever sees genuine strings.
		return sql.NullString{}
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02.01.2006 15:04",
}

// ParseTime tries the supported layouts in order
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toTime(v any) sql.NullTime {
	switch x := v.(type) {
	case time.Time:
		return sql.NullTime{Time: x, Valid: true}
	case string:
		t, ok := ParseTime(x)
		return sql.NullTime{Time: t, Valid: ok}
	case []byte:
		t, ok := ParseTime(string(x))
		return sql.NullTime{Time: t, Valid: ok}
	default:
		return sql.NullTime{}
	}
}
