package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"medstat/domain/core"
)

// ColumnKind is the storage class of a column
type ColumnKind string

const (
	KindNumeric  ColumnKind = "numeric"
	KindText     ColumnKind = "text"
	KindTemporal ColumnKind = "temporal"
	KindBool     ColumnKind = "bool"
)

// LabelColumn is the name of the derived complication label
const LabelColumn = "complications"

// Column is one named, typed column. Exactly one of the value slices is
// populated, chosen by Kind. Numeric and bool columns use NaN for missing.
type Column struct {
	Name  string
	Kind  ColumnKind
	Float []float64
	Text  []sql.NullString
	Time  []sql.NullTime
}

// NewNumericColumn creates a numeric column; NaN entries are missing
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Float: values}
}

// NewBoolColumn creates a boolean column stored as 0/1 with NaN for missing
func NewBoolColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindBool, Float: values}
}

// NewTextColumn creates a nullable text column
func NewTextColumn(name string, values []sql.NullString) *Column {
	return &Column{Name: name, Kind: KindText, Text: values}
}

// NewTemporalColumn creates a nullable timestamp column
func NewTemporalColumn(name string, values []sql.NullTime) *Column {
	return &Column{Name: name, Kind: KindTemporal, Time: values}
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	switch c.Kind {
	case KindText:
		return len(c.Text)
	case KindTemporal:
		return len(c.Time)
	default:
		return len(c.Float)
	}
}

// IsNumeric reports whether the column takes part in correlation and training.
// Booleans are excluded, matching a float/int dtype selection.
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsMissing reports whether row i holds no value
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case KindText:
		return !c.Text[i].Valid
	case KindTemporal:
		return !c.Time[i].Valid
	default:
		return math.IsNaN(c.Float[i])
	}
}

// StringAt returns the text value at row i; ok is false for non-text or null cells
func (c *Column) StringAt(i int) (s string, ok bool) {
	if c.Kind != KindText || !c.Text[i].Valid {
		return "", false
	}
	return c.Text[i].String, true
}

// MissingCount returns how many rows are missing
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Float != nil {
		out.Float = append([]float64(nil), c.Float...)
	}
	if c.Text != nil {
		out.Text = append([]sql.NullString(nil), c.Text...)
	}
	if c.Time != nil {
		out.Time = append([]sql.NullTime(nil), c.Time...)
	}
	return out
}

// Dataset is an in-memory table: ordered, named, typed columns of equal length
type Dataset struct {
	Source  string
	rows    int
	columns []*Column
	index   map[string]int
}

// New creates an empty dataset expecting the given number of rows
func New(source string, rows int) *Dataset {
	return &Dataset{
		Source: source,
		rows:   rows,
		index:  make(map[string]int),
	}
}

// NumRows returns the row count
func (d *Dataset) NumRows() int {
	return d.rows
}

// NumColumns returns the column count
func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// Columns returns columns in declaration order
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// ColumnNames returns names in declaration order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by exact name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// AddColumn appends c, or replaces an existing column of the same name in place
func (d *Dataset) AddColumn(c *Column) error {
	if c.Len() != d.rows {
		return fmt.Errorf("column %q has %d rows, dataset has %d", c.Name, c.Len(), d.rows)
	}
	if i, ok := d.index[c.Name]; ok {
		d.columns[i] = c
		return nil
	}
	d.index[c.Name] = len(d.columns)
	d.columns = append(d.columns, c)
	return nil
}

// NumericColumns returns the numeric columns in declaration order
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// LowercaseNames lower-cases every column name. Names that collide after
// lower-casing get a ".1", ".2" ... suffix in declaration order.
func (d *Dataset) LowercaseNames() {
	seen := make(map[string]int, len(d.columns))
	d.index = make(map[string]int, len(d.columns))
	for i, c := range d.columns {
		name := strings.ToLower(c.Name)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		c.Name = name
		d.index[name] = i
	}
}

// Fingerprint hashes the schema and row count so runs over the same table are comparable
func (d *Dataset) Fingerprint() core.Hash {
	parts := make([]string, 0, len(d.columns)+1)
	parts = append(parts, fmt.Sprintf("rows=%d", d.rows))
	for _, c := range d.columns {
		parts = append(parts, c.Name+":"+string(c.Kind))
	}
	return core.HashStrings(parts)
}
