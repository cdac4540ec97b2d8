package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"medstat/internal/config"
	"medstat/internal/container"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis: label, rank, train both cycles, plot and report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags(), sourceKeys, runKeys); err != nil {
				return err
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			logger := loggerFor(cfg)

			c, err := container.New(cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := c.Pipeline.Run(ctx)
			if err != nil {
				return err
			}
			logger.Info("run %s finished: %d features ranked, %d warnings",
				result.Manifest.RunID, len(result.Manifest.Ranking), len(result.Manifest.Warnings))
			return nil
		},
	}

	sourceFlags(cmd)
	f := cmd.Flags()
	f.Int("top-n", config.DefaultTopN, "Number of features to rank")
	f.Int("plot-features", 3, "Number of ranked features to plot")
	f.Float64("test-size", config.DefaultTestSize, "Held-out fraction")
	f.Int64("seed", config.DefaultSeed, "Random seed for splits, SMOTE and the forest")
	f.Int("n-trees", config.DefaultNTrees, "Trees in the random forest")
	f.Int("max-depth", 0, "Maximum tree depth, 0 for unlimited")
	f.Int("smote-k", config.DefaultSmoteK, "SMOTE nearest neighbours")
	f.String("impute", "median", "Imputation strategy: median, mean or constant")
	f.Float64("impute-constant", 0, "Fill value for the constant strategy")
	f.String("out", ".", "Output directory")
	f.Bool("html", false, "Also write interactive HTML charts")
	f.Bool("xlsx", false, "Also write the XLSX report")

	return cmd
}

var runKeys = map[string]string{
	"top-n":           "top_n",
	"plot-features":   "plot_features",
	"test-size":       "test_size",
	"seed":            "seed",
	"n-trees":         "n_trees",
	"max-depth":       "max_depth",
	"smote-k":         "smote_k",
	"impute":          "impute_strategy",
	"impute-constant": "impute_constant",
	"out":             "output_dir",
	"html":            "html_charts",
	"xlsx":            "xlsx_report",
}
