package sim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fmvalue/internal/scenario"
)

func defaultConfig(t *testing.T) *scenario.Config {
	t.Helper()
	cfg, err := scenario.Load("default")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRunTrial_Deterministic(t *testing.T) {
	cfg := defaultConfig(t)
	a, err := RunTrial(cfg, 42, true, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunTrial(cfg, 42, true, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different records (-first +second):\n%s", diff)
	}
}

func TestRunTrial_SeedsDiffer(t *testing.T) {
	cfg := defaultConfig(t)
	a, err := RunTrial(cfg, 1, false, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunTrial(cfg, 2, false, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	if a.MonthsBase == b.MonthsBase && a.LCOE[0] == b.LCOE[0] {
		t.Error("different seeds produced identical draws")
	}
}

func TestRunTrial_SeriesShareYearAxis(t *testing.T) {
	cfg := defaultConfig(t)
	rec, err := RunTrial(cfg, 7, true, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Years[0] != 2025 || rec.Years[len(rec.Years)-1] != 2070 {
		t.Errorf("year axis [%d, %d], want [2025, 2070]", rec.Years[0], rec.Years[len(rec.Years)-1])
	}
	for name, s := range map[string][]float64{
		"N": rec.N, "Capex": rec.Capex, "CF": rec.CF, "FOM": rec.FOM,
		"VOM": rec.VOM, "NetPower": rec.NetPower, "LCOE": rec.LCOE,
	} {
		if len(s) != len(rec.Years) {
			t.Errorf("%s has %d points, want %d", name, len(s), len(rec.Years))
		}
	}
}

func TestRunTrial_BaselineIgnoresIntervention(t *testing.T) {
	cfg := defaultConfig(t)
	rec, err := RunTrial(cfg, 11, false, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MonthsFM != rec.MonthsBase {
		t.Errorf("baseline MonthsFM = %v, want MonthsBase %v", rec.MonthsFM, rec.MonthsBase)
	}
	if rec.DeltaCODYears != 0 {
		t.Errorf("baseline DeltaCODYears = %v, want 0", rec.DeltaCODYears)
	}
}

func TestRunTrial_InterventionLowersLateLCOE(t *testing.T) {
	cfg := defaultConfig(t)
	for seed := uint64(1); seed <= 20; seed++ {
		base, err := RunTrial(cfg, seed, false, ShareModeK)
		if err != nil {
			t.Fatal(err)
		}
		fm, err := RunTrial(cfg, seed, true, ShareModeK)
		if err != nil {
			t.Fatal(err)
		}
		last := len(base.LCOE) - 1
		if fm.LCOE[last] >= base.LCOE[last] {
			t.Errorf("seed %d: intervention LCOE %v at horizon end, want below baseline %v",
				seed, fm.LCOE[last], base.LCOE[last])
		}
		for i, rec := range []*TrialRecord{base, fm} {
			for j, v := range rec.CF {
				if v < 0.01 || v > 0.95 {
					t.Fatalf("seed %d record %d: cf %v at year %d outside [0.01, 0.95]",
						seed, i, v, rec.Years[j])
				}
			}
		}
	}
}

func TestRunTrial_DoubleCountGuard(t *testing.T) {
	cfg := defaultConfig(t)
	bad := *cfg
	bad.Base = *cfg.Base.Clone()
	bad.Base.FMEffects.Sharing.DeltaBExponent = 0.02 // both mechanisms active

	_, err := RunTrial(&bad, 1, true, ShareModeK)
	var gv *GuardViolationError
	if !errors.As(err, &gv) {
		t.Fatalf("err = %v, want *GuardViolationError", err)
	}
	if gv.Guard != "sharing-no-double-count" {
		t.Errorf("Guard = %q, want sharing-no-double-count", gv.Guard)
	}
}

func TestRunTrial_ShareModeB(t *testing.T) {
	cfg := defaultConfig(t)
	modeB := *cfg
	modeB.Base = *cfg.Base.Clone()
	modeB.Base.FMEffects.Sharing.KMultiplier = 1.0
	modeB.Base.FMEffects.Sharing.DeltaBExponent = 0.03

	rec, err := RunTrial(&modeB, 5, true, ShareModeB)
	if err != nil {
		t.Fatal(err)
	}
	base, err := RunTrial(&modeB, 5, false, ShareModeB)
	if err != nil {
		t.Fatal(err)
	}
	if rec.B <= base.B {
		t.Errorf("mode b intervention B = %v, want above baseline %v", rec.B, base.B)
	}
	if rec.K != base.K*1.0 {
		t.Errorf("mode b K = %v, want unchanged %v", rec.K, base.K)
	}
}

func TestRunTrial_InvalidSampledScenario(t *testing.T) {
	cfg := defaultConfig(t)
	bad := *cfg
	bad.Priors = map[string]scenario.PriorSpec{
		"finance.wacc_real": {Dist: DistConstant, Params: []float64{0.5}}, // above range
	}
	_, err := RunTrial(&bad, 1, false, ShareModeK)
	if err == nil {
		t.Fatal("out-of-range sampled value should fail the trial")
	}
	var inv *scenario.InvalidScenarioError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want *InvalidScenarioError", err)
	}
}

func TestRunTrial_BottomUpModel(t *testing.T) {
	cfg := defaultConfig(t)
	bu := *cfg
	bu.Base = *cfg.Base.Clone()
	bu.Priors = nil // keep the drawn scenario equal to the base for exact assertions
	bu.Base.Adoption.Model = scenario.ModelBottomUp
	total, years := 100, 10
	bu.Base.Adoption.BottomUpTotalCustomers = &total
	bu.Base.Adoption.BottomUpBuildYears = &years

	rec, err := RunTrial(&bu, 3, true, ShareModeK)
	if err != nil {
		t.Fatal(err)
	}
	if rec.N[0] != 10 {
		t.Errorf("first-year fleet = %v, want 10", rec.N[0])
	}
	if rec.N[9] != 100 || rec.N[len(rec.N)-1] != 100 {
		t.Errorf("buildout = %v then %v, want 100 flat after year 10", rec.N[9], rec.N[len(rec.N)-1])
	}
	// Timing knobs do not apply to the deterministic ramp.
	if rec.TMid != bu.Base.Adoption.TMidBase {
		t.Errorf("TMid = %v, want base value %v", rec.TMid, bu.Base.Adoption.TMidBase)
	}
}

func TestYearAxis(t *testing.T) {
	ys := yearAxis(2030)
	if ys[0] != 2030 || ys[len(ys)-1] != 2070 {
		t.Errorf("axis [%d, %d], want [2030, 2070]", ys[0], ys[len(ys)-1])
	}
	ys = yearAxis(2010)
	if ys[0] != 2025 {
		t.Errorf("axis start %d, want floored at 2025", ys[0])
	}
}
