package sqldb

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"medstat/domain/dataset"
	"medstat/internal"
	"medstat/internal/errors"
)

// Supported driver names, as registered with database/sql
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateIdentifier checks that a (optionally schema-qualified) table name
// is a plain identifier and safe to interpolate into a query
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return errors.InvalidInput(fmt.Sprintf("invalid table name %q", name))
	}
	return nil
}

// Source loads a whole table through database/sql
type Source struct {
	driver string
	dsn    string
	table  string
	logger *internal.Logger
}

// NewSource creates a table source. The connection is opened by Load and
// closed before it returns.
func NewSource(driver, dsn, table string, logger *internal.Logger) (*Source, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported database driver %q", driver))
	}
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Source{driver: driver, dsn: dsn, table: table, logger: logger}, nil
}

// Describe names the source without credentials
func (s *Source) Describe() string {
	return fmt.Sprintf("%s:%s/%s", s.driver, redactDSN(s.dsn), s.table)
}

// Load runs SELECT * FROM <table> and materializes the result with
// lower-cased column names
func (s *Source) Load(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()

	db, err := sqlx.ConnectContext(ctx, s.driver, s.dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	defer db.Close()

	ds, err := QueryDataset(ctx, db, fmt.Sprintf("SELECT * FROM %s", s.table), s.Describe())
	if err != nil {
		return nil, err
	}
	ds.LowercaseNames()

	s.logger.Info("[Loader] %s loaded in %.2fms (%d columns, %d rows)",
		s.Describe(), float64(time.Since(start).Nanoseconds())/1e6, ds.NumColumns(), ds.NumRows())
	return ds, nil
}

// QueryDataset runs query on an open connection and converts the result set.
// Column kinds come from the driver's type names, falling back to the
// scanned values when the driver reports none.
func QueryDataset(ctx context.Context, db *sqlx.DB, query, source string) (*dataset.Dataset, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("query execution failed", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.DatabaseError("failed to read column types", err)
	}
	names := make([]string, len(colTypes))
	kinds := make([]dataset.ColumnKind, len(colTypes))
	for j, ct := range colTypes {
		names[j] = ct.Name()
		kinds[j] = KindForDatabaseType(ct.DatabaseTypeName())
	}

	var raw [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.DatabaseError("row scan failed", err)
		}
		raw = append(raw, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("row iteration failed", err)
	}

	for j := range kinds {
		if kinds[j] == "" {
			kinds[j] = inferKind(raw, j)
		}
	}

	b, err := dataset.NewBuilder(source, names, kinds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dataset")
	}
	for _, values := range raw {
		if err := b.AppendRow(values); err != nil {
			return nil, errors.Wrap(err, "failed to build dataset")
		}
	}
	ds, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dataset")
	}
	return ds, nil
}

// KindForDatabaseType maps a driver type name to a column kind.
// An empty result means the type is unknown and values must be inspected.
func KindForDatabaseType(typeName string) dataset.ColumnKind {
	t := strings.ToUpper(strings.TrimSpace(typeName))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch {
	case t == "":
		return ""
	case strings.HasPrefix(t, "_"), strings.HasSuffix(t, "[]"), strings.HasPrefix(t, "INTERVAL"):
		// arrays and durations have no scalar numeric or timestamp reading
		return dataset.KindText
	case integerTypes[t], strings.HasPrefix(t, "FLOAT"),
		t == "NUMERIC", t == "DECIMAL", t == "REAL", strings.HasPrefix(t, "DOUBLE"), t == "MONEY":
		return dataset.KindNumeric
	case strings.HasPrefix(t, "BOOL"):
		return dataset.KindBool
	case t == "DATE", strings.HasPrefix(t, "TIME"), t == "DATETIME":
		return dataset.KindTemporal
	default:
		return dataset.KindText
	}
}

var integerTypes = map[string]bool{
	"INT": true, "INT2": true, "INT4": true, "INT8": true,
	"INTEGER": true, "SMALLINT": true, "BIGINT": true, "TINYINT": true, "MEDIUMINT": true,
	"SERIAL": true, "SMALLSERIAL": true, "BIGSERIAL": true,
	"UNSIGNED BIG INT": true,
}

func inferKind(raw [][]any, j int) dataset.ColumnKind {
	kind := dataset.ColumnKind("")
	for _, row := range raw {
		var k dataset.ColumnKind
		switch row[j].(type) {
		case nil:
			continue
		case int64, float64, int32, float32, int:
			k = dataset.KindNumeric
		case bool:
			k = dataset.KindBool
		case time.Time:
			k = dataset.KindTemporal
		default:
			return dataset.KindText
		}
		if kind == "" {
			kind = k
		} else if kind != k {
			return dataset.KindText
		}
	}
	if kind == "" {
		// An all-null column carries no numbers; treat it as text like an object column
		return dataset.KindText
	}
	return kind
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		if i := strings.Index(dsn, "password="); i >= 0 {
			end := strings.IndexByte(dsn[i:], ' ')
			if end < 0 {
				return dsn[:i] + "password=****"
			}
			return dsn[:i] + "password=****" + dsn[i+end:]
		}
		return dsn
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
	}
	return u.String()
}
