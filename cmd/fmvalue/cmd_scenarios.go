package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fmvalue/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in scenario configs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range scenario.List() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
