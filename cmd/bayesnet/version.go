package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bayesnet",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), bayesnet.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
