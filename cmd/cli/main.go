package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"medstat/internal"
	"medstat/internal/config"
)

func main() {
	_ = godotenv.Load()

	var cfgFile string
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "medstat",
		Short: "Complication risk analysis: correlation ranking and random forest evaluation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, cfgFile)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")
	if err := v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		newRunCmd(v),
		newGenerateCmd(),
		newInspectCmd(v),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceKeys maps the source flags shared by run and inspect to config keys
var sourceKeys = map[string]string{
	"database-url": "database_url",
	"driver":       "db_driver",
	"table":        "db_table",
	"data-file":    "data_file",
	"sheet":        "data_sheet",
	"label-marker": "label_marker",
	"label-column": "label_column",
}

func sourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("database-url", "", "Database DSN")
	f.String("driver", "", "Database driver: postgres or sqlite")
	f.String("table", "", "Table to analyse")
	f.String("data-file", "", "CSV or XLSX file to analyse instead of the database")
	f.String("sheet", "", "XLSX sheet name")
	f.String("label-marker", "", "Substring identifying the complications column")
	f.String("label-column", "", "Exact complications column, overrides the marker")
}

// bindFlags binds the executing command's flags onto v. Binding happens at
// run time because run and inspect share keys and viper keeps one flag per key.
// A bound flag overrides env and file values only when it is set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...map[string]string) error {
	for _, m := range keys {
		for name, key := range m {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func loggerFor(cfg *config.Config) *internal.Logger {
	return internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
}
