package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [network]",
	Short: "Estimate P(query | evidence) on a network",
	Long: `Estimates the posterior distribution of the query variables given the evidence.

Example:
  bayesnet ask burglary --query Burglary --evidence JohnCalls=true,MaryCalls=true`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		engine, closer, err := cli.NewEngine(sc, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closer()

		opts := askOptions(cmd, args)
		opts.Algorithm = cfg.Algorithm
		opts.Samples = cfg.Samples
		return cli.HandleExecutionError(cli.RunAsk(sc, engine, opts, cmd.OutOrStdout(), format))
	},
}

// askOptions reads the network, query and evidence shared by ask and graph.
func askOptions(cmd *cobra.Command, args []string) cli.AskOptions {
	network, _ := cmd.Flags().GetString("network")
	if !cmd.Flags().Changed("network") && len(args) > 0 {
		network = args[0]
	}
	query, _ := cmd.Flags().GetString("query")
	evidence, _ := cmd.Flags().GetString("evidence")
	return cli.AskOptions{Network: network, Query: query, Evidence: evidence}
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("network", "", "Network name (or first argument)")
	cmd.Flags().StringP("query", "q", "", "Comma-separated query variables, e.g. Burglary")
	cmd.Flags().StringP("evidence", "e", "", "Comma-separated observations, e.g. JohnCalls=true,MaryCalls=true")
}

func init() {
	rootCmd.AddCommand(askCmd)
	addQueryFlags(askCmd)
	addSamplingFlags(askCmd)
	addOutputFlags(askCmd)
}
