package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fmvalue",
	Short: "Monte Carlo simulator for fusion plant cost trajectories",
	Long: "fmvalue runs paired Monte Carlo batches of a fusion LCOE model\n" +
		"with and without the modeled development intervention, and reports\n" +
		"per-year quantiles of cost, deployment, and performance.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}
