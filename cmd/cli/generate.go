package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"medstat/adapters/excel"
	"medstat/adapters/sqldb"
	"medstat/internal/config"
	"medstat/internal/testkit"
)

func newGenerateCmd() *cobra.Command {
	defaults := testkit.DefaultMedicalConfig()
	var (
		out   string
		table string
		cfg   = defaults
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic patient cohort to CSV, XLSX or a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := testkit.NewMedicalDataGenerator(cfg).Generate()
			if err != nil {
				return err
			}

			switch strings.ToLower(filepath.Ext(out)) {
			case ".db", ".sqlite":
				db, err := sqlx.Open(sqldb.DriverSQLite, out)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := sqldb.WriteTable(cmd.Context(), db, table, ds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d patients to %s (table %s)\n", ds.NumRows(), out, table)
			default:
				if err := excel.WriteDatasetFile(ds, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d patients to %s\n", ds.NumRows(), out)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Patients, "rows", defaults.Patients, "Number of patients")
	f.IntVar(&cfg.NumericFeatures, "features", defaults.NumericFeatures, "Number of numeric features")
	f.IntVar(&cfg.Positives, "positives", defaults.Positives, "Patients with complications")
	f.IntVar(&cfg.SignalFeatures, "signal", defaults.SignalFeatures, "Features shifted for positive patients")
	f.Float64Var(&cfg.MissingRate, "missing", defaults.MissingRate, "Fraction of missing numeric cells")
	f.Int64Var(&cfg.Seed, "seed", defaults.Seed, "Random seed")
	f.StringVar(&out, "out", "cohort.csv", "Output path: .csv, .xlsx or .db")
	f.StringVar(&table, "table", config.DefaultTable, "Table name for .db output")
	return cmd
}
