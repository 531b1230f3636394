// Package scenario defines the fully-numeric configuration tree consumed by
// the simulation core, its range validation, and the prior declarations that
// the per-trial drawer resolves into concrete values.
package scenario

import (
	"fmt"
	"math"
)

// Scenario is the configuration for one simulated world. It is built once,
// either from YAML at load time or by the per-trial drawer, range-validated
// at construction, and never mutated afterwards.
type Scenario struct {
	Meta        Meta        `yaml:"meta"`
	Finance     Finance     `yaml:"finance"`
	Ops         Ops         `yaml:"ops"`
	Schedule    Schedule    `yaml:"schedule"`
	Experiments Experiments `yaml:"experiments"`
	Adoption    Adoption    `yaml:"adoption"`
	Learning    Learning    `yaml:"learning"`
	FMEffects   FMEffects   `yaml:"fm_effects"`
}

// Meta carries plant-level identity fields.
type Meta struct {
	Currency   string  `yaml:"currency"`
	PowerNetMW float64 `yaml:"power_net_MW"`
}

// Finance holds the discounting parameters for LCOE annualization.
type Finance struct {
	WACCReal  float64 `yaml:"wacc_real"`
	LifeYears int     `yaml:"life_years"`
}

// Ops holds base operating assumptions before operational learning.
type Ops struct {
	CFBaseInitial          float64 `yaml:"cf_base_initial"`
	CFBaseMature           float64 `yaml:"cf_base_mature"`
	FOMBasePerYear         float64 `yaml:"fom_base_per_year"`
	VOMBasePerMWh          float64 `yaml:"vom_base_per_MWh"`
	CommissioningRampYears int     `yaml:"commissioning_ramp_years"`
}

// Schedule holds the project-duration model parameters. The *Months modes are
// the planning values; the pointer fields are optional sampled overrides that
// priors inject and the drawer resolves exactly once per trial.
type Schedule struct {
	DesignMonthsMode     float64 `yaml:"design_months_mode"`
	EPCMonthsMode        float64 `yaml:"epc_months_mode"`
	CommissionMonthsMode float64 `yaml:"commission_months_mode"`

	DesignMonths     *float64 `yaml:"design_months,omitempty"`
	EPCMonths        *float64 `yaml:"epc_months,omitempty"`
	CommissionMonths *float64 `yaml:"commission_months,omitempty"`

	ReworkProb          float64  `yaml:"rework_prob"`
	ReworkFactor        *float64 `yaml:"rework_factor,omitempty"`
	EPCReworkTailProb   float64  `yaml:"epc_rework_tail_prob"`
	EPCReworkTailFactor float64  `yaml:"epc_rework_tail_factor"`
	UpliftLognormMu     float64  `yaml:"uplift_lognorm_mu"`
	UpliftLognormSigma  float64  `yaml:"uplift_lognorm_sigma"`
}

// Experiments holds the campaign model that converts experimental throughput
// into time-to-gate, and thence into schedule reduction.
type Experiments struct {
	ShotsPerGate         int     `yaml:"shots_per_gate"`
	ShotSuccessProb      float64 `yaml:"shot_success_prob"`
	ShotsPerDay          int     `yaml:"shots_per_day"`
	DaysPerCampaign      int     `yaml:"days_per_campaign"`
	DaysBetweenCampaigns int     `yaml:"days_between_campaigns"`
}

// Adoption model selectors.
const (
	ModelLogistic     = "logistic"      // logistic with exponentially ramping build ceiling (default)
	ModelLogisticFlat = "logistic_flat" // logistic with a single flat build ceiling
	ModelBottomUp     = "bottom_up"     // deterministic bottom-up ramp
	ModelCeiling      = "ceiling"       // ceiling-driven exponential additions, no saturation in horizon
)

// Adoption configures the fleet cumulative-deployment model.
type Adoption struct {
	Model               string  `yaml:"model"`
	TMidBase            float64 `yaml:"t_mid_base"`
	KBase               float64 `yaml:"k_base"`
	NMax                int     `yaml:"n_max"`
	MaxBuildRatePerYear int     `yaml:"max_build_rate_per_year"`

	// Ceiling-ramp parameters, used by the ceiling model (and overriding the
	// defaults of the ramped logistic when set).
	CeilingStartPerYear *float64 `yaml:"ceiling_start_per_year,omitempty"`
	CeilingGrowth       *float64 `yaml:"ceiling_growth,omitempty"`

	// Bottom-up parameters, required when Model == ModelBottomUp.
	BottomUpTotalCustomers *int `yaml:"bottom_up_total_customers,omitempty"`
	BottomUpBuildYears     *int `yaml:"bottom_up_build_years,omitempty"`
}

// Learning configures the two-factor experience curve.
type Learning struct {
	Capex0FOAKUSD    float64 `yaml:"capex0_FOAK_USD"`
	CapexFloorUSD    float64 `yaml:"capex_floor_USD"`
	BExponent        float64 `yaml:"b_exponent"`
	GExogenousPerYear float64 `yaml:"g_exogenous_per_year"`
	N0               float64 `yaml:"N0"`
	T0               float64 `yaml:"t0"`
	InertiaYears     float64 `yaml:"inertia_years"`
}

// FMEffects bundles the four intervention channels.
type FMEffects struct {
	Simulation  FMSimulation  `yaml:"simulation"`
	Experiments FMExperiments `yaml:"experiments"`
	Control     FMControl     `yaml:"control"`
	Sharing     FMSharing     `yaml:"sharing"`
}

// FMSimulation: faster design iteration and exogenous learning uplift.
type FMSimulation struct {
	DeltaGPerYear          float64 `yaml:"delta_g_per_year"`
	DesignTimeReductionPct float64 `yaml:"design_time_reduction_pct"`
	ReworkProbReductionPct float64 `yaml:"rework_prob_reduction_pct"`
}

// FMExperiments: fewer shots per gate and higher shot success probability.
type FMExperiments struct {
	ShotsReductionPct float64 `yaml:"shots_reduction_pct"`
	SuccessProbUplift float64 `yaml:"success_prob_uplift"`
}

// FMControl: operating-point improvements layered on the learned trajectory.
type FMControl struct {
	CFUpliftAbs     float64 `yaml:"cf_uplift_abs"`
	FOMReductionPct float64 `yaml:"fom_reduction_pct"`
	VOMReductionPct float64 `yaml:"vom_reduction_pct"`
}

// FMSharing: exactly one of the two mechanisms may be active per trial; the
// inactive one must hold its neutral value (KMultiplier 1.0, DeltaBExponent 0).
type FMSharing struct {
	DeltaBExponent float64 `yaml:"delta_b_exponent"`
	KMultiplier    float64 `yaml:"k_multiplier"`
}

// PriorSpec declares the distribution for one uncertain parameter.
type PriorSpec struct {
	Dist   string    `yaml:"dist"`
	Params []float64 `yaml:"params"`
}

// Config pairs a base Scenario with its prior declarations, keyed by dotted
// parameter path (e.g. "finance.wacc_real"). Sources carries citation notes
// per path and is not consumed by the simulation.
type Config struct {
	Base    Scenario             `yaml:"base_config"`
	Priors  map[string]PriorSpec `yaml:"priors"`
	Sources map[string][]string  `yaml:"sources,omitempty"`
}

// InvalidScenarioError reports a range violation at Scenario construction or
// post-sampling re-validation, naming the offending dotted path and value.
type InvalidScenarioError struct {
	Path   string
	Value  float64
	Reason string
}

func (e *InvalidScenarioError) Error() string {
	return fmt.Sprintf("invalid scenario: %s = %v (%s)", e.Path, e.Value, e.Reason)
}

func rangeErr(path string, v float64, lo, hi float64) error {
	return &InvalidScenarioError{Path: path, Value: v, Reason: fmt.Sprintf("must be in [%g, %g]", lo, hi)}
}

func minErr(path string, v float64, lo float64) error {
	return &InvalidScenarioError{Path: path, Value: v, Reason: fmt.Sprintf("must be >= %g", lo)}
}

func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }

// Validate checks every field against its construction range. The same checks
// run again after the drawer injects sampled values.
func (s *Scenario) Validate() error {
	if s.Meta.PowerNetMW <= 0 {
		return &InvalidScenarioError{Path: "meta.power_net_MW", Value: s.Meta.PowerNetMW, Reason: "must be > 0"}
	}
	if !inRange(s.Finance.WACCReal, 0, 0.2) {
		return rangeErr("finance.wacc_real", s.Finance.WACCReal, 0, 0.2)
	}
	if s.Finance.LifeYears < 10 || s.Finance.LifeYears > 60 {
		return rangeErr("finance.life_years", float64(s.Finance.LifeYears), 10, 60)
	}
	if !inRange(s.Ops.CFBaseInitial, 0.01, 0.95) {
		return rangeErr("ops.cf_base_initial", s.Ops.CFBaseInitial, 0.01, 0.95)
	}
	if !inRange(s.Ops.CFBaseMature, 0.01, 0.95) {
		return rangeErr("ops.cf_base_mature", s.Ops.CFBaseMature, 0.01, 0.95)
	}
	if s.Ops.FOMBasePerYear < 0 {
		return minErr("ops.fom_base_per_year", s.Ops.FOMBasePerYear, 0)
	}
	if s.Ops.VOMBasePerMWh < 0 {
		return minErr("ops.vom_base_per_MWh", s.Ops.VOMBasePerMWh, 0)
	}
	if s.Ops.CommissioningRampYears < 0 || s.Ops.CommissioningRampYears > 12 {
		return rangeErr("ops.commissioning_ramp_years", float64(s.Ops.CommissioningRampYears), 0, 12)
	}
	if err := s.Schedule.validate(); err != nil {
		return err
	}
	if !inRange(s.Experiments.ShotSuccessProb, 0, 1) {
		return rangeErr("experiments.shot_success_prob", s.Experiments.ShotSuccessProb, 0, 1)
	}
	if s.Experiments.ShotsPerGate < 1 {
		return minErr("experiments.shots_per_gate", float64(s.Experiments.ShotsPerGate), 1)
	}
	if s.Experiments.ShotsPerDay < 1 {
		return minErr("experiments.shots_per_day", float64(s.Experiments.ShotsPerDay), 1)
	}
	if s.Experiments.DaysPerCampaign < 1 {
		return minErr("experiments.days_per_campaign", float64(s.Experiments.DaysPerCampaign), 1)
	}
	if s.Experiments.DaysBetweenCampaigns < 0 {
		return minErr("experiments.days_between_campaigns", float64(s.Experiments.DaysBetweenCampaigns), 0)
	}
	if err := s.Adoption.validate(); err != nil {
		return err
	}
	if err := s.Learning.validate(); err != nil {
		return err
	}
	if s.FMEffects.Sharing.KMultiplier <= 0 {
		return &InvalidScenarioError{Path: "fm_effects.sharing.k_multiplier", Value: s.FMEffects.Sharing.KMultiplier, Reason: "must be > 0"}
	}
	return nil
}

func (sc *Schedule) validate() error {
	if sc.DesignMonthsMode <= 0 {
		return &InvalidScenarioError{Path: "schedule.design_months_mode", Value: sc.DesignMonthsMode, Reason: "must be > 0"}
	}
	if sc.EPCMonthsMode <= 0 {
		return &InvalidScenarioError{Path: "schedule.epc_months_mode", Value: sc.EPCMonthsMode, Reason: "must be > 0"}
	}
	if sc.CommissionMonthsMode <= 0 {
		return &InvalidScenarioError{Path: "schedule.commission_months_mode", Value: sc.CommissionMonthsMode, Reason: "must be > 0"}
	}
	if !inRange(sc.ReworkProb, 0, 1) {
		return rangeErr("schedule.rework_prob", sc.ReworkProb, 0, 1)
	}
	if !inRange(sc.EPCReworkTailProb, 0, 1) {
		return rangeErr("schedule.epc_rework_tail_prob", sc.EPCReworkTailProb, 0, 1)
	}
	if !inRange(sc.EPCReworkTailFactor, 0, 1) {
		return rangeErr("schedule.epc_rework_tail_factor", sc.EPCReworkTailFactor, 0, 1)
	}
	for _, o := range []struct {
		path string
		v    *float64
	}{
		{"schedule.design_months", sc.DesignMonths},
		{"schedule.epc_months", sc.EPCMonths},
		{"schedule.commission_months", sc.CommissionMonths},
	} {
		if o.v != nil && *o.v <= 0 {
			return &InvalidScenarioError{Path: o.path, Value: *o.v, Reason: "must be > 0"}
		}
	}
	if sc.ReworkFactor != nil && *sc.ReworkFactor < 0 {
		return minErr("schedule.rework_factor", *sc.ReworkFactor, 0)
	}
	if sc.UpliftLognormMu <= -1 {
		return &InvalidScenarioError{Path: "schedule.uplift_lognorm_mu", Value: sc.UpliftLognormMu, Reason: "must be > -1"}
	}
	if sc.UpliftLognormSigma < 0 {
		return minErr("schedule.uplift_lognorm_sigma", sc.UpliftLognormSigma, 0)
	}
	return nil
}

func (a *Adoption) validate() error {
	switch a.Model {
	case ModelLogistic, ModelLogisticFlat, ModelBottomUp, ModelCeiling:
	default:
		return &InvalidScenarioError{Path: "adoption.model", Reason: fmt.Sprintf("unknown model %q", a.Model)}
	}
	if a.KBase < 0.01 {
		return minErr("adoption.k_base", a.KBase, 0.01)
	}
	if a.NMax < 1 {
		return minErr("adoption.n_max", float64(a.NMax), 1)
	}
	if a.MaxBuildRatePerYear < 1 {
		return minErr("adoption.max_build_rate_per_year", float64(a.MaxBuildRatePerYear), 1)
	}
	if a.Model == ModelBottomUp {
		if a.BottomUpTotalCustomers == nil || *a.BottomUpTotalCustomers < 1 {
			return &InvalidScenarioError{Path: "adoption.bottom_up_total_customers", Reason: "required and >= 1 for bottom_up model"}
		}
		if a.BottomUpBuildYears == nil || *a.BottomUpBuildYears < 1 {
			return &InvalidScenarioError{Path: "adoption.bottom_up_build_years", Reason: "required and >= 1 for bottom_up model"}
		}
	}
	if a.CeilingStartPerYear != nil && *a.CeilingStartPerYear <= 0 {
		return &InvalidScenarioError{Path: "adoption.ceiling_start_per_year", Value: *a.CeilingStartPerYear, Reason: "must be > 0"}
	}
	return nil
}

func (l *Learning) validate() error {
	if l.Capex0FOAKUSD < 1e9 {
		return minErr("learning.capex0_FOAK_USD", l.Capex0FOAKUSD, 1e9)
	}
	if l.CapexFloorUSD < 1e9 {
		return minErr("learning.capex_floor_USD", l.CapexFloorUSD, 1e9)
	}
	if !inRange(l.BExponent, 0, 1) {
		return rangeErr("learning.b_exponent", l.BExponent, 0, 1)
	}
	if l.N0 <= 0 {
		return &InvalidScenarioError{Path: "learning.N0", Value: l.N0, Reason: "must be > 0"}
	}
	if l.InertiaYears < 0 {
		return minErr("learning.inertia_years", l.InertiaYears, 0)
	}
	return nil
}

// Clone returns a deep copy, duplicating the optional override pointers so
// per-trial mutation during drawing never aliases the base Scenario.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.Schedule.DesignMonths = clonePtr(s.Schedule.DesignMonths)
	c.Schedule.EPCMonths = clonePtr(s.Schedule.EPCMonths)
	c.Schedule.CommissionMonths = clonePtr(s.Schedule.CommissionMonths)
	c.Schedule.ReworkFactor = clonePtr(s.Schedule.ReworkFactor)
	c.Adoption.CeilingStartPerYear = clonePtr(s.Adoption.CeilingStartPerYear)
	c.Adoption.CeilingGrowth = clonePtr(s.Adoption.CeilingGrowth)
	c.Adoption.BottomUpTotalCustomers = clonePtr(s.Adoption.BottomUpTotalCustomers)
	c.Adoption.BottomUpBuildYears = clonePtr(s.Adoption.BottomUpBuildYears)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SetPath assigns a sampled value to the field at the given dotted path.
// Integer-typed fields are rounded to the nearest integer; optional override
// fields are materialized. Unknown paths are rejected so a typo in a prior
// declaration fails the trial instead of silently sampling into the void.
func SetPath(s *Scenario, path string, v float64) error {
	set, ok := paramSetters[path]
	if !ok {
		return &InvalidScenarioError{Path: path, Value: v, Reason: "no such prior-settable parameter"}
	}
	set(s, v)
	return nil
}

func roundInt(v float64) int { return int(math.Round(v)) }

var paramSetters = map[string]func(*Scenario, float64){
	"meta.power_net_MW": func(s *Scenario, v float64) { s.Meta.PowerNetMW = v },

	"finance.wacc_real":  func(s *Scenario, v float64) { s.Finance.WACCReal = v },
	"finance.life_years": func(s *Scenario, v float64) { s.Finance.LifeYears = roundInt(v) },

	"ops.cf_base_initial":   func(s *Scenario, v float64) { s.Ops.CFBaseInitial = v },
	"ops.cf_base_mature":    func(s *Scenario, v float64) { s.Ops.CFBaseMature = v },
	"ops.fom_base_per_year": func(s *Scenario, v float64) { s.Ops.FOMBasePerYear = v },
	"ops.vom_base_per_MWh":  func(s *Scenario, v float64) { s.Ops.VOMBasePerMWh = v },
	"ops.commissioning_ramp_years": func(s *Scenario, v float64) {
		s.Ops.CommissioningRampYears = roundInt(v)
	},

	"schedule.design_months":     func(s *Scenario, v float64) { s.Schedule.DesignMonths = &v },
	"schedule.epc_months":        func(s *Scenario, v float64) { s.Schedule.EPCMonths = &v },
	"schedule.commission_months": func(s *Scenario, v float64) { s.Schedule.CommissionMonths = &v },
	"schedule.rework_prob":       func(s *Scenario, v float64) { s.Schedule.ReworkProb = v },
	"schedule.rework_factor":     func(s *Scenario, v float64) { s.Schedule.ReworkFactor = &v },
	"schedule.epc_rework_tail_prob": func(s *Scenario, v float64) {
		s.Schedule.EPCReworkTailProb = v
	},
	"schedule.epc_rework_tail_factor": func(s *Scenario, v float64) {
		s.Schedule.EPCReworkTailFactor = v
	},
	"schedule.uplift_lognorm_mu":    func(s *Scenario, v float64) { s.Schedule.UpliftLognormMu = v },
	"schedule.uplift_lognorm_sigma": func(s *Scenario, v float64) { s.Schedule.UpliftLognormSigma = v },

	"experiments.shots_per_gate":    func(s *Scenario, v float64) { s.Experiments.ShotsPerGate = roundInt(v) },
	"experiments.shot_success_prob": func(s *Scenario, v float64) { s.Experiments.ShotSuccessProb = v },
	"experiments.shots_per_day":     func(s *Scenario, v float64) { s.Experiments.ShotsPerDay = roundInt(v) },
	"experiments.days_per_campaign": func(s *Scenario, v float64) { s.Experiments.DaysPerCampaign = roundInt(v) },
	"experiments.days_between_campaigns": func(s *Scenario, v float64) {
		s.Experiments.DaysBetweenCampaigns = roundInt(v)
	},

	"adoption.t_mid_base": func(s *Scenario, v float64) { s.Adoption.TMidBase = v },
	"adoption.k_base":     func(s *Scenario, v float64) { s.Adoption.KBase = v },
	"adoption.n_max":      func(s *Scenario, v float64) { s.Adoption.NMax = roundInt(v) },
	"adoption.max_build_rate_per_year": func(s *Scenario, v float64) {
		s.Adoption.MaxBuildRatePerYear = roundInt(v)
	},

	"learning.capex0_FOAK_USD":      func(s *Scenario, v float64) { s.Learning.Capex0FOAKUSD = v },
	"learning.capex_floor_USD":      func(s *Scenario, v float64) { s.Learning.CapexFloorUSD = v },
	"learning.b_exponent":           func(s *Scenario, v float64) { s.Learning.BExponent = v },
	"learning.g_exogenous_per_year": func(s *Scenario, v float64) { s.Learning.GExogenousPerYear = v },
	"learning.inertia_years":        func(s *Scenario, v float64) { s.Learning.InertiaYears = v },

	"fm_effects.simulation.delta_g_per_year": func(s *Scenario, v float64) {
		s.FMEffects.Simulation.DeltaGPerYear = v
	},
	"fm_effects.simulation.design_time_reduction_pct": func(s *Scenario, v float64) {
		s.FMEffects.Simulation.DesignTimeReductionPct = v
	},
	"fm_effects.simulation.rework_prob_reduction_pct": func(s *Scenario, v float64) {
		s.FMEffects.Simulation.ReworkProbReductionPct = v
	},
	"fm_effects.experiments.shots_reduction_pct": func(s *Scenario, v float64) {
		s.FMEffects.Experiments.ShotsReductionPct = v
	},
	"fm_effects.experiments.success_prob_uplift": func(s *Scenario, v float64) {
		s.FMEffects.Experiments.SuccessProbUplift = v
	},
	"fm_effects.control.cf_uplift_abs": func(s *Scenario, v float64) {
		s.FMEffects.Control.CFUpliftAbs = v
	},
	"fm_effects.control.fom_reduction_pct": func(s *Scenario, v float64) {
		s.FMEffects.Control.FOMReductionPct = v
	},
	"fm_effects.control.vom_reduction_pct": func(s *Scenario, v float64) {
		s.FMEffects.Control.VOMReductionPct = v
	},
	"fm_effects.sharing.delta_b_exponent": func(s *Scenario, v float64) {
		s.FMEffects.Sharing.DeltaBExponent = v
	},
	"fm_effects.sharing.k_multiplier": func(s *Scenario, v float64) {
		s.FMEffects.Sharing.KMultiplier = v
	},
}
