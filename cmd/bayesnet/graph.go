package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
	"github.com/aretw0/bayesnet/internal/config"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [network]",
	Short: "Export the network structure visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the network. With --query or --evidence
the named variables are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		cfg.Cache.Backend = config.CacheNone
		engine, closer, err := cli.NewEngine(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closer()

		return cli.RunGraph(engine, askOptions(cmd, args), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addQueryFlags(graphCmd)
}
