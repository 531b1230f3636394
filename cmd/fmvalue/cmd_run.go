package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fmvalue/internal/format"
	"fmvalue/internal/logging"
	"fmvalue/internal/mc"
	"fmvalue/internal/scenario"
	"fmvalue/internal/sim"
)

var runFlags struct {
	scenario   string
	configPath string
	trials     int
	seed       uint64
	parallel   int
	shareMode  string
	output     string
	check      bool
	logLevel   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a paired baseline/intervention Monte Carlo batch",
	Long: `Run draws one scenario per trial from the configured priors, simulates
the fusion buildout and cost trajectory twice per seed (baseline and with the
intervention active), and prints per-year quantile tables for both arms.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.scenario, "scenario", "default", "Built-in scenario name (see 'fmvalue scenarios')")
	f.StringVar(&runFlags.configPath, "config", "", "Path to a scenario YAML file (overrides --scenario)")
	f.IntVar(&runFlags.trials, "trials", 1000, "Number of trials per arm")
	f.Uint64Var(&runFlags.seed, "seed", 1, "Seed of the first trial; trial i uses seed+i")
	f.IntVar(&runFlags.parallel, "parallel", 4, "Number of parallel workers (1 = serial)")
	f.StringVar(&runFlags.shareMode, "share-mode", "k", "Knowledge-sharing mechanism: k (adoption steepness) or b (learning exponent)")
	f.StringVar(&runFlags.output, "format", "ascii", "Table format: ascii or markdown")
	f.BoolVar(&runFlags.check, "check", false, "Run acceptance checks against the calibration anchors")
	f.StringVar(&runFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runRun(cmd *cobra.Command, _ []string) error {
	logging.Init(parseLevel(runFlags.logLevel), "text", os.Stderr)
	logger := logging.New("cli")

	mode, err := tableMode(runFlags.output)
	if err != nil {
		return err
	}
	shareMode := sim.ShareMode(runFlags.shareMode)
	if shareMode != sim.ShareModeK && shareMode != sim.ShareModeB {
		return fmt.Errorf("unknown share mode %q (want k or b)", runFlags.shareMode)
	}

	var cfg *scenario.Config
	name := runFlags.scenario
	if runFlags.configPath != "" {
		name = runFlags.configPath
		cfg, err = scenario.LoadPath(runFlags.configPath)
	} else {
		cfg, err = scenario.Load(runFlags.scenario)
	}
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	bc := mc.BatchConfig{
		Trials:    runFlags.trials,
		Seed0:     runFlags.seed,
		Parallel:  runFlags.parallel,
		ShareMode: shareMode,
	}
	logger.Info("starting paired batch",
		"scenario", name, "trials", bc.Trials, "seed0", bc.Seed0,
		"parallel", bc.Parallel, "share_mode", string(shareMode))

	base, fm, err := mc.RunPaired(cmd.Context(), cfg, bc)
	if err != nil {
		return fmt.Errorf("run paired batch: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := printBatchSummary(out, "Baseline", base, mode); err != nil {
		return err
	}
	if err := printBatchSummary(out, "With intervention", fm, mode); err != nil {
		return err
	}
	printCrossover(out, base, fm)

	if runFlags.check {
		if err := mc.AcceptanceChecks(base, fm); err != nil {
			return fmt.Errorf("acceptance checks failed:\n%w", err)
		}
		fmt.Fprintf(out, "\n%s acceptance checks passed\n", format.BoolMark(true))
	}
	return nil
}

// reportYears limits the quantile tables to decade marks so the output stays
// readable for a 45-year horizon.
func reportYears(years []int) []int {
	var out []int
	for _, y := range years {
		if y%5 == 0 || y == years[0] || y == years[len(years)-1] {
			out = append(out, y)
		}
	}
	return out
}

func printBatchSummary(out io.Writer, title string, b *mc.Batch, mode format.Mode) error {
	lcoe, err := b.Quantiles(mc.MetricLCOE)
	if err != nil {
		return err
	}
	capex, err := b.Quantiles(mc.MetricCapex)
	if err != nil {
		return err
	}
	n, err := b.Quantiles(mc.MetricN)
	if err != nil {
		return err
	}

	t := format.NewTable(mode)
	t.Header("Year", "LCOE p10", "LCOE p50", "LCOE p90", "CAPEX p50", "Units p50")
	t.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
	)
	idx := make(map[int]int, len(lcoe.Years))
	for i, y := range lcoe.Years {
		idx[y] = i
	}
	for _, y := range reportYears(lcoe.Years) {
		i := idx[y]
		t.Row(y,
			format.FmtPerMWh(lcoe.P10[i]),
			format.FmtPerMWh(lcoe.P50[i]),
			format.FmtPerMWh(lcoe.P90[i]),
			format.FmtUSD(capex.P50[i]),
			fmt.Sprintf("%.0f", n.P50[i]),
		)
	}
	fmt.Fprintf(out, "\n%s (%d trials)\n%s\n", title, len(b.Records), t.String())
	return nil
}

func printCrossover(out io.Writer, base, fm *mc.Batch) {
	const target = 50.0
	baseYear, baseOK, err1 := base.YearWhen(mc.MetricLCOE, target)
	fmYear, fmOK, err2 := fm.YearWhen(mc.MetricLCOE, target)
	if err1 != nil || err2 != nil {
		return
	}
	fmt.Fprintf(out, "\nMedian LCOE reaches %s:\n", format.FmtPerMWh(target))
	if baseOK {
		fmt.Fprintf(out, "  baseline:          %d\n", baseYear)
	} else {
		fmt.Fprintf(out, "  baseline:          not within horizon\n")
	}
	if fmOK {
		fmt.Fprintf(out, "  with intervention: %d\n", fmYear)
	} else {
		fmt.Fprintf(out, "  with intervention: not within horizon\n")
	}
	if baseOK && fmOK {
		fmt.Fprintf(out, "  lead:              %d years\n", baseYear-fmYear)
	}
}

func tableMode(s string) (format.Mode, error) {
	switch s {
	case "ascii":
		return format.ASCII, nil
	case "markdown":
		return format.Markdown, nil
	default:
		return format.ASCII, fmt.Errorf("unknown format %q (want ascii or markdown)", s)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
