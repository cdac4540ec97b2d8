package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"medstat/internal/config"
	"medstat/internal/console"
	"medstat/internal/container"
	"medstat/internal/labeling"
	"medstat/internal/profiling"
)

func newInspectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the source schema, label candidates and numeric column profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags(), sourceKeys); err != nil {
				return err
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			source, err := container.NewSource(cfg, loggerFor(cfg))
			if err != nil {
				return err
			}
			ds, err := source.Load(cmd.Context())
			if err != nil {
				return err
			}

			printer := console.NewPrinter(cmd.OutOrStdout())
			candidates := labeling.Candidates(ds, cfg.Analysis.LabelMarker)
			printer.Schema(ds, candidates)
			if len(candidates) == 0 && cfg.Analysis.LabelColumn == "" {
				printer.Warning("no column matches the label marker " + cfg.Analysis.LabelMarker)
			}

			profiles, err := profiling.ProfileDataset(ds)
			if err != nil {
				return err
			}
			printer.Profiles(profiles)
			return nil
		},
	}
	sourceFlags(cmd)
	return cmd
}
