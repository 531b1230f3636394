package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Default(t *testing.T) {
	cfg, err := Load("default")
	if err != nil {
		t.Fatalf("Load(default) = %v", err)
	}
	if cfg.Base.Meta.PowerNetMW != 1000 {
		t.Errorf("PowerNetMW = %v, want 1000", cfg.Base.Meta.PowerNetMW)
	}
	if cfg.Base.Adoption.Model != ModelLogistic {
		t.Errorf("Model = %q, want %q", cfg.Base.Adoption.Model, ModelLogistic)
	}
	if len(cfg.Priors) == 0 {
		t.Error("default scenario should declare priors")
	}
	for path := range cfg.Priors {
		if _, ok := paramSetters[path]; !ok {
			t.Errorf("prior %q targets no settable parameter", path)
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("no-such-scenario")
	if err == nil {
		t.Fatal("Load should fail for unknown scenario")
	}
	if !strings.Contains(err.Error(), "available:") {
		t.Errorf("error should list available scenarios, got: %v", err)
	}
}

func TestList_ContainsDefault(t *testing.T) {
	names := List()
	found := false
	for _, n := range names {
		if n == "default" {
			found = true
		}
	}
	if !found {
		t.Errorf("List() = %v, want it to contain default", names)
	}
}

func TestLoadPath(t *testing.T) {
	data, err := scenarioFS.ReadFile("default.yaml")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "copy.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath = %v", err)
	}
	if cfg.Base.Finance.LifeYears != 30 {
		t.Errorf("LifeYears = %d, want 30", cfg.Base.Finance.LifeYears)
	}
}

func TestLoadPath_RejectsBadPriorTarget(t *testing.T) {
	yaml := `
base_config:
  meta: {currency: USD, power_net_MW: 1000}
  finance: {wacc_real: 0.07, life_years: 30}
  ops: {cf_base_initial: 0.5, cf_base_mature: 0.75, fom_base_per_year: 120e6, vom_base_per_MWh: 2.0, commissioning_ramp_years: 3}
  schedule: {design_months_mode: 48, epc_months_mode: 60, commission_months_mode: 12, rework_prob: 0.35, epc_rework_tail_prob: 0.25, epc_rework_tail_factor: 0.2, uplift_lognorm_mu: 0.1, uplift_lognorm_sigma: 0.15}
  experiments: {shots_per_gate: 10000, shot_success_prob: 0.6, shots_per_day: 10, days_per_campaign: 120, days_between_campaigns: 60}
  adoption: {model: logistic, t_mid_base: 2045, k_base: 0.2, n_max: 300, max_build_rate_per_year: 20}
  learning: {capex0_FOAK_USD: 10e9, capex_floor_USD: 4.5e9, b_exponent: 0.18, g_exogenous_per_year: 0.005, N0: 1, t0: 2025, inertia_years: 2}
  fm_effects:
    sharing: {k_multiplier: 1.25, delta_b_exponent: 0}
priors:
  finance.wacc_rael: {dist: triangular, params: [0.05, 0.07, 0.09]}
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadPath(path)
	if err == nil {
		t.Fatal("LoadPath should reject a prior that targets no parameter")
	}
	if !strings.Contains(err.Error(), "targets no settable parameter") {
		t.Errorf("unexpected error: %v", err)
	}
}
