package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
	"github.com/aretw0/bayesnet/internal/config"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <network>",
	Short: "Draw one event from a network's joint distribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		cfg.Cache.Backend = config.CacheNone
		engine, closer, err := cli.NewEngine(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closer()

		return cli.RunSample(cmd.Context(), engine, args[0], cmd.OutOrStdout(), format)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().Uint64("seed", 0, "Random seed (overrides config)")
	addOutputFlags(sampleCmd)
}
