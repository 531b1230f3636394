package mc

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fmvalue/internal/logging"
	"fmvalue/internal/scenario"
	"fmvalue/internal/sim"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *scenario.Config {
	t.Helper()
	cfg, err := scenario.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun_RecordsIndexedBySeed(t *testing.T) {
	cfg := testConfig(t)
	b, err := Run(context.Background(), cfg, BatchConfig{Trials: 8, Seed0: 100, Parallel: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Records) != 8 {
		t.Fatalf("got %d records, want 8", len(b.Records))
	}
	for i, rec := range b.Records {
		if rec == nil {
			t.Fatalf("record %d is nil", i)
		}
		if rec.Seed != 100+uint64(i) {
			t.Errorf("record %d has seed %d, want %d", i, rec.Seed, 100+uint64(i))
		}
	}
}

func TestRun_ParallelMatchesSerial(t *testing.T) {
	cfg := testConfig(t)
	serial, err := Run(context.Background(), cfg, BatchConfig{Trials: 6, Seed0: 1, Parallel: 1, WithFM: true})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Run(context.Background(), cfg, BatchConfig{Trials: 6, Seed0: 1, Parallel: 6, WithFM: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(serial.Records, parallel.Records); diff != "" {
		t.Errorf("worker count changed results (-serial +parallel):\n%s", diff)
	}
}

func TestRun_ZeroTrials(t *testing.T) {
	cfg := testConfig(t)
	if _, err := Run(context.Background(), cfg, BatchConfig{Trials: 0}); err == nil {
		t.Error("zero trials should fail")
	}
}

func TestRun_TrialFailureFailsBatch(t *testing.T) {
	cfg := testConfig(t)
	bad := *cfg
	bad.Base = *cfg.Base.Clone()
	bad.Base.FMEffects.Sharing.DeltaBExponent = 0.02

	_, err := Run(context.Background(), &bad, BatchConfig{Trials: 4, Seed0: 1, Parallel: 2, WithFM: true, ShareMode: sim.ShareModeK})
	if err == nil {
		t.Fatal("guard violation in a trial should fail the batch")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, cfg, BatchConfig{Trials: 50, Seed0: 1, Parallel: 2}); err == nil {
		t.Error("canceled context should fail the batch")
	}
}

func TestRunPaired_InterventionReachesTargetNoLater(t *testing.T) {
	cfg := testConfig(t)
	base, fm, err := RunPaired(context.Background(), cfg, BatchConfig{Trials: 40, Seed0: 1, Parallel: 4})
	if err != nil {
		t.Fatal(err)
	}
	baseYear, baseHit, err := base.YearWhen(MetricLCOE, 50.0)
	if err != nil {
		t.Fatal(err)
	}
	fmYear, fmHit, err := fm.YearWhen(MetricLCOE, 50.0)
	if err != nil {
		t.Fatal(err)
	}
	if !fmHit {
		t.Fatal("intervention median never reaches $50/MWh within the horizon")
	}
	if baseHit && fmYear > baseYear {
		t.Errorf("intervention reaches $50/MWh in %d, after baseline's %d", fmYear, baseYear)
	}
}

func TestRunPaired_SharedSeedRange(t *testing.T) {
	cfg := testConfig(t)
	base, fm, err := RunPaired(context.Background(), cfg, BatchConfig{Trials: 5, Seed0: 10, Parallel: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := range base.Records {
		if base.Records[i].Seed != fm.Records[i].Seed {
			t.Errorf("trial %d: base seed %d != fm seed %d", i, base.Records[i].Seed, fm.Records[i].Seed)
		}
		if base.Records[i].WithFM || !fm.Records[i].WithFM {
			t.Errorf("trial %d: WithFM flags wrong: base=%v fm=%v", i, base.Records[i].WithFM, fm.Records[i].WithFM)
		}
	}
}
