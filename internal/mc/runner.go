// Package mc runs batches of independent trials in parallel and aggregates
// them into per-year quantiles and acceptance checks. Trials are pure
// functions of (config, seed, intervention flag); the only synchronization
// point is collecting records into a slice keyed by trial index.
package mc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fmvalue/internal/logging"
	"fmvalue/internal/scenario"
	"fmvalue/internal/sim"
)

// BatchConfig controls one Monte Carlo batch.
type BatchConfig struct {
	Trials    int
	Seed0     uint64 // trial i uses seed Seed0+i
	Parallel  int    // worker count; <=1 means serial
	WithFM    bool
	ShareMode sim.ShareMode
}

// Batch holds the completed records of one run, indexed by trial.
type Batch struct {
	Records []*sim.TrialRecord
}

// Run executes cfg.Trials independent trials on up to cfg.Parallel workers.
// Completion order never affects the result: record i always lands in slot i.
// The first trial failure cancels the remaining workers and fails the batch;
// trials are deterministic, so a retry would fail identically.
func Run(ctx context.Context, cfg *scenario.Config, bc BatchConfig) (*Batch, error) {
	if bc.Trials <= 0 {
		return nil, fmt.Errorf("batch wants at least 1 trial, got %d", bc.Trials)
	}
	if bc.ShareMode == "" {
		bc.ShareMode = sim.ShareModeK
	}
	parallel := bc.Parallel
	if parallel < 1 {
		parallel = 1
	}

	logger := logging.New("mc")
	logger.Info("running batch",
		"trials", bc.Trials, "seed0", bc.Seed0, "with_fm", bc.WithFM,
		"share_mode", string(bc.ShareMode), "workers", parallel)

	records := make([]*sim.TrialRecord, bc.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := 0; i < bc.Trials; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := bc.Seed0 + uint64(i)
			rec, err := sim.RunTrial(cfg, seed, bc.WithFM, bc.ShareMode)
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, seed, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Batch{Records: records}, nil
}

// RunPaired runs a baseline batch and an intervention batch over the same
// seed range, so each FM trial is compared against the baseline world drawn
// from the same stream.
func RunPaired(ctx context.Context, cfg *scenario.Config, bc BatchConfig) (base, fm *Batch, err error) {
	baseCfg := bc
	baseCfg.WithFM = false
	base, err = Run(ctx, cfg, baseCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("baseline batch: %w", err)
	}

	fmCfg := bc
	fmCfg.WithFM = true
	fm, err = Run(ctx, cfg, fmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("intervention batch: %w", err)
	}
	return base, fm, nil
}
