package sqldb

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"

	"medstat/domain/dataset"
	"medstat/internal/errors"
)

// WriteTable creates table and inserts every row of ds in one transaction.
// It seeds fixture databases for the generate command and the loader tests;
// an existing table with the same name is dropped first.
func WriteTable(ctx context.Context, db *sqlx.DB, table string, ds *dataset.Dataset) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to drop table %s", table), err)
	}

	cols := ds.Columns()
	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for j, c := range cols {
		quoted[j] = quoteIdent(c.Name)
		defs[j] = fmt.Sprintf("%s %s", quoted[j], sqlType(c.Kind))
		marks[j] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to create table %s", table), err)
	}

	insert := db.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return errors.DatabaseError("failed to prepare insert", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i := 0; i < ds.NumRows(); i++ {
		for j, c := range cols {
			args[j] = cellValue(c, i)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to insert row %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(kind dataset.ColumnKind) string {
	switch kind {
	case dataset.KindNumeric:
		return "DOUBLE PRECISION"
	case dataset.KindBool:
		return "BOOLEAN"
	case dataset.KindTemporal:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func cellValue(c *dataset.Column, i int) any {
	switch c.Kind {
	case dataset.KindNumeric:
		if math.IsNaN(c.Float[i]) {
			return nil
		}
		return c.Float[i]
	case dataset.KindBool:
		if math.IsNaN(c.Float[i]) {
			return nil
		}
		return c.Float[i] != 0
	case dataset.KindTemporal:
		if !c.Time[i].Valid {
			return nil
		}
		return c.Time[i].Time
	default:
		if !c.Text[i].Valid {
			return nil
		}
		return c.Text[i].String
	}
}
