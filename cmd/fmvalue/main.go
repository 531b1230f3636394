// fmvalue is the CLI for the fusion LCOE Monte Carlo simulator: run paired
// baseline/intervention batches, list built-in scenarios, or serve the
// simulator over MCP.
//
// Usage:
//
//	fmvalue run [--scenario=<name>|--config=<path>] [--trials=N] [--seed=N]
//	fmvalue scenarios
//	fmvalue serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
