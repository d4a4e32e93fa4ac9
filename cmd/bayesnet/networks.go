package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
	"github.com/aretw0/bayesnet/internal/config"
)

var networksCmd = &cobra.Command{
	Use:     "networks [name]",
	Aliases: []string{"ls"},
	Short:   "List the registered networks, or describe one",
	Args:    cobra.MaximumNArgs(1),
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

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		return cli.RunNetworks(engine, name, cmd.OutOrStdout(), format)
	},
}

func init() {
	rootCmd.AddCommand(networksCmd)
	addOutputFlags(networksCmd)
}
