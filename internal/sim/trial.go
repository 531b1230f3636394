package sim

import (
	"fmt"
	"math"

	"fmvalue/internal/scenario"
)

// Modeled horizon. The year axis starts at the learning reference year t0
// (but never before horizonStartMin) and runs through horizonEnd inclusive.
const (
	horizonStartMin = 2025
	horizonEnd      = 2070
)

// Operational-learning shape parameters. The intervention does not change the
// functional form; it shortens the time constants (0.4 boost) and raises the
// long-run asymptotes.
const (
	tauCFYears = 50.0
	tauOMYears = 30.0

	baseMaxCFGain      = 0.50
	baseMaxOMReduction = 0.50
	fmMaxCFGain        = 1.00
	fmMaxOMReduction   = 0.80
	fmOpsBoost         = 0.40

	powerPerDecade = 0.10
	fmPowerBoost   = 0.25
	powerCap       = 2.0
)

// Defaults for the ramping build ceiling of the logistic adoption model.
const (
	defaultCeilingStartPerYear = 0.5
	defaultCeilingGrowth       = 0.12
	ceilingModelGrowth         = 0.10
)

// TrialRecord is the complete output of one trial. All series share the Years
// axis and have equal length; the caller owns the record exclusively once
// returned.
type TrialRecord struct {
	Seed   uint64
	WithFM bool

	Years    []int
	N        []float64 // cumulative fleet count
	Capex    []float64 // $ per plant
	CF       []float64 // capacity factor
	FOM      []float64 // fixed O&M, $/year
	VOM      []float64 // variable O&M, $/MWh
	NetPower []float64 // MW
	LCOE     []float64 // $/MWh

	TMid          float64 // adoption midpoint year
	K             float64 // diffusion rate
	B             float64 // learning exponent
	G             float64 // exogenous progress rate
	MonthsBase    float64 // baseline schedule draw
	MonthsFM      float64 // intervention schedule draw (== MonthsBase without FM)
	DeltaCODYears float64 // schedule delta folded into adoption timing
}

// RunTrial executes one fully-deterministic trial: draw the scenario from its
// priors, map intervention effects, simulate the schedule, build the adoption
// trajectory, run the learning curves, and aggregate LCOE.
//
// The trial's stream is consumed in a fixed order: scenario draws (lexical
// prior paths), then schedule draws (baseline, then intervention). Re-running
// with the same arguments yields a bit-identical TrialRecord.
// Guard violations are fatal: the trial aborts with no partial result.
func RunTrial(cfg *scenario.Config, seed uint64, withFM bool, mode ShareMode) (*TrialRecord, error) {
	rng := NewStream(seed)

	drawn, err := DrawScenario(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("draw scenario: %w", err)
	}

	knobs := MapEffects(drawn, withFM)
	if err := knobs.checkNoDoubleCount(mode); err != nil {
		return nil, err
	}

	// Experiments channel: fold any positive relative time-to-gate reduction
	// into the schedule-reduction knob, never decreasing a knob another
	// channel already set.
	exp := drawn.Experiments
	shots, pSucc := float64(exp.ShotsPerGate), exp.ShotSuccessProb
	if withFM {
		shots, pSucc = AdjustExperimentInputs(exp, drawn.FMEffects.Experiments)
	}
	tGateBase := TimeToGateDays(float64(exp.ShotsPerGate), exp.ShotSuccessProb,
		float64(exp.ShotsPerDay), exp.DaysPerCampaign, exp.DaysBetweenCampaigns)
	tGateFM := TimeToGateDays(shots, pSucc,
		float64(exp.ShotsPerDay), exp.DaysPerCampaign, exp.DaysBetweenCampaigns)
	reductionFromExp := math.Max(0, (tGateBase-tGateFM)/math.Max(1.0, tGateBase))
	knobs.Schedule.DesignTimeReductionPct = math.Max(knobs.Schedule.DesignTimeReductionPct, reductionFromExp)

	// Schedule: baseline draw, then intervention draw. Both consume the
	// stream even though the baseline result is reused when FM is off.
	rs := ResolveSchedule(drawn.Schedule)
	monthsBase := DrawScheduleMonths(rs, nil, rng)
	monthsFM := monthsBase
	if withFM {
		monthsFM = DrawScheduleMonths(rs, &knobs.Schedule, rng)
	}
	deltaYears := (monthsBase - monthsFM) / 12.0

	years := yearAxis(drawn.Learning.T0)

	// Adoption: the schedule delta advances the midpoint; the sharing k
	// multiplier accelerates diffusion/build growth.
	ad := drawn.Adoption
	tMid := ad.TMidBase
	k := ad.KBase
	if withFM {
		tMid -= deltaYears
		k *= knobs.KMult
	}
	var n []float64
	switch ad.Model {
	case scenario.ModelBottomUp:
		n = BottomUpRamp(years, float64(*ad.BottomUpTotalCustomers), *ad.BottomUpBuildYears,
			float64(ad.MaxBuildRatePerYear), 0)
		tMid, k = ad.TMidBase, ad.KBase // timing knobs don't apply; keep reported values stable
	case scenario.ModelCeiling:
		start := orDefault(ad.CeilingStartPerYear, defaultCeilingStartPerYear)
		growth := orDefault(ad.CeilingGrowth, ceilingModelGrowth)
		if withFM {
			growth *= knobs.KMult
		}
		n = ExponentialAdditions(years, start, growth, float64(ad.MaxBuildRatePerYear), 0)
	case scenario.ModelLogisticFlat:
		n = ConstrainedLogistic(years, float64(ad.NMax), k, tMid, float64(ad.MaxBuildRatePerYear), 0)
	default: // scenario.ModelLogistic
		start := orDefault(ad.CeilingStartPerYear, defaultCeilingStartPerYear)
		growth := orDefault(ad.CeilingGrowth, defaultCeilingGrowth)
		n = LogisticWithCeilingRamp(years, float64(ad.NMax), k, tMid,
			start, growth, float64(ad.MaxBuildRatePerYear), 0)
	}

	// Learning curve with intervention-adjusted b and g.
	lrn := drawn.Learning
	b := lrn.BExponent
	g := lrn.GExogenousPerYear
	if withFM {
		if mode == ShareModeB {
			b += knobs.BDelta
		}
		g += knobs.GDelta
	}
	capex := CapexTwoFactor(n, years, lrn.Capex0FOAKUSD, lrn.CapexFloorUSD, b, g, lrn.N0, lrn.T0, lrn.InertiaYears)
	if err := checkCapexMonotone(capex, g); err != nil {
		return nil, err
	}

	// Operations: commissioning ramp, then saturating operational learning,
	// then (with FM) the control channel layered on the learned fraction only
	// so baseline and intervention start from the same point.
	ops := drawn.Ops
	cfRamp := CFPath(years, ops.CFBaseInitial, ops.CFBaseMature, ops.CommissioningRampYears)

	cfGain, omRed := baseMaxCFGain, baseMaxOMReduction
	boost := 0.0
	if withFM {
		cfGain, omRed = fmMaxCFGain, fmMaxOMReduction
		boost = fmOpsBoost
	}
	cfLearning, omLearning := OpsLearningFactors(years, lrn.T0, tauCFYears, tauOMYears, boost, boost, cfGain, omRed)

	cf := make([]float64, len(years))
	fom := make([]float64, len(years))
	vom := make([]float64, len(years))
	for i := range years {
		cf[i] = clip(cfRamp[i]*cfLearning[i], 0.01, 0.95)
		fom[i] = ops.FOMBasePerYear * omLearning[i]
		vom[i] = ops.VOMBasePerMWh * omLearning[i]
	}
	if withFM {
		for i := range years {
			cf[i] = clip(cf[i]+knobs.CFUplift, 0.01, 0.95)
			// (1 - omLearning) is the learned fraction; the control-channel
			// reduction scales with it so year one is identical to baseline.
			learned := 1.0 - omLearning[i]
			fom[i] = ops.FOMBasePerYear * omLearning[i] * (1.0 - (1.0-knobs.FOMMult)*learned)
			vom[i] = ops.VOMBasePerMWh * omLearning[i] * (1.0 - (1.0-knobs.VOMMult)*learned)
		}
	}
	if err := checkCFBounds(cf); err != nil {
		return nil, err
	}

	powerBoost := 0.0
	if withFM {
		powerBoost = fmPowerBoost
	}
	powerMult := PowerOutputMultiplier(years, lrn.T0, powerPerDecade, powerBoost, powerCap)
	netPower := make([]float64, len(years))
	for i := range years {
		netPower[i] = drawn.Meta.PowerNetMW * powerMult[i]
	}

	lcoe, err := LCOESeries(capex, cf, fom, vom, netPower, drawn.Finance.WACCReal, drawn.Finance.LifeYears)
	if err != nil {
		return nil, err
	}

	rec := &TrialRecord{
		Seed:   seed,
		WithFM: withFM,
		Years:  years,

		N:        n,
		Capex:    capex,
		CF:       cf,
		FOM:      fom,
		VOM:      vom,
		NetPower: netPower,
		LCOE:     lcoe,

		TMid:          tMid,
		K:             k,
		B:             b,
		G:             g,
		MonthsBase:    monthsBase,
		MonthsFM:      monthsFM,
		DeltaCODYears: deltaYears,
	}
	if err := rec.checkSeriesLengths(); err != nil {
		return nil, err
	}
	return rec, nil
}

// yearAxis builds the shared year axis: max(horizonStartMin, t0) .. horizonEnd.
func yearAxis(t0 float64) []int {
	start := int(t0)
	if start < horizonStartMin {
		start = horizonStartMin
	}
	years := make([]int, 0, horizonEnd-start+1)
	for y := start; y <= horizonEnd; y++ {
		years = append(years, y)
	}
	return years
}

// checkSeriesLengths enforces the assembly invariant: every series shares the
// year axis and has equal length.
func (r *TrialRecord) checkSeriesLengths() error {
	want := len(r.Years)
	for name, s := range map[string][]float64{
		"N": r.N, "capex": r.Capex, "cf": r.CF, "fom": r.FOM,
		"vom": r.VOM, "net_power": r.NetPower, "lcoe": r.LCOE,
	} {
		if len(s) != want {
			return &GuardViolationError{
				Guard:  "series-length",
				Detail: fmt.Sprintf("series %s has %d points, year axis has %d", name, len(s), want),
			}
		}
	}
	return nil
}

func orDefault(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}
