package sim

import (
	"fmt"
	"math"

	"fmvalue/internal/scenario"
)

// ShareMode selects which sharing mechanism is active for a trial.
type ShareMode string

const (
	// ShareModeK routes the sharing channel through the build-rate-growth
	// multiplier; the learning-exponent delta must stay neutral.
	ShareModeK ShareMode = "k"
	// ShareModeB routes the sharing channel through the learning-exponent
	// delta; the build-rate multiplier must stay neutral.
	ShareModeB ShareMode = "b"
)

// ScheduleKnobs carries the schedule-channel intervention adjustments.
type ScheduleKnobs struct {
	DesignTimeReductionPct float64
	ReworkProbReductionPct float64
}

// Knobs is the ephemeral per-trial knob set derived from the four
// intervention-effect channels. Computed fresh per trial; never persisted.
type Knobs struct {
	Schedule ScheduleKnobs

	GDelta   float64 // simulation channel: exogenous learning-rate delta
	BDelta   float64 // sharing channel (mode b): learning-exponent delta
	KMult    float64 // sharing channel (mode k): diffusion/build-growth multiplier
	CFUplift float64 // control channel: additive capacity-factor uplift
	FOMMult  float64 // control channel: fixed O&M multiplier
	VOMMult  float64 // control channel: variable O&M multiplier
}

// MapEffects translates the intervention bundle into internal knobs. With the
// intervention off, every knob holds its neutral value.
func MapEffects(s *scenario.Scenario, withFM bool) Knobs {
	if !withFM {
		return Knobs{KMult: 1.0, FOMMult: 1.0, VOMMult: 1.0}
	}
	fx := s.FMEffects
	return Knobs{
		Schedule: ScheduleKnobs{
			DesignTimeReductionPct: fx.Simulation.DesignTimeReductionPct,
			ReworkProbReductionPct: fx.Simulation.ReworkProbReductionPct,
		},
		GDelta:   fx.Simulation.DeltaGPerYear,
		BDelta:   fx.Sharing.DeltaBExponent,
		KMult:    fx.Sharing.KMultiplier,
		CFUplift: fx.Control.CFUpliftAbs,
		FOMMult:  1.0 - fx.Control.FOMReductionPct,
		VOMMult:  1.0 - fx.Control.VOMReductionPct,
	}
}

// checkNoDoubleCount enforces that exactly one sharing mechanism is active:
// under mode k the b-delta must be neutral, under mode b the k-multiplier
// must be neutral. Overlap would count the sharing benefit twice.
func (k Knobs) checkNoDoubleCount(mode ShareMode) error {
	switch mode {
	case ShareModeK:
		if math.Abs(k.BDelta) >= 1e-12 {
			return &GuardViolationError{
				Guard:  "sharing-no-double-count",
				Detail: fmt.Sprintf("share mode k: delta_b_exponent %g must be 0", k.BDelta),
			}
		}
	case ShareModeB:
		if math.Abs(k.KMult-1.0) >= 1e-12 {
			return &GuardViolationError{
				Guard:  "sharing-no-double-count",
				Detail: fmt.Sprintf("share mode b: k_multiplier %g must be 1", k.KMult),
			}
		}
	default:
		return &GuardViolationError{
			Guard:  "sharing-no-double-count",
			Detail: fmt.Sprintf("unknown share mode %q", mode),
		}
	}
	return nil
}

// checkCapexMonotone verifies that with zero exogenous progress the
// experience curve alone never raises CAPEX. An increase means N(t) shrank or
// interacted badly with the floor, which is an upstream defect, not noise.
func checkCapexMonotone(capex []float64, g float64) error {
	if math.Abs(g) >= 1e-9 {
		return nil
	}
	for i := 1; i < len(capex); i++ {
		if capex[i]-capex[i-1] > 1e-6 {
			return &GuardViolationError{
				Guard:  "capex-monotone-g0",
				Detail: fmt.Sprintf("CAPEX rose %g -> %g at index %d with g=0", capex[i-1], capex[i], i),
			}
		}
	}
	return nil
}

// checkCFBounds verifies the capacity factor stays in [0.01, 0.95] at every
// step after uplift and learning composition.
func checkCFBounds(cf []float64) error {
	for i, v := range cf {
		if v < 0.01 || v > 0.95 {
			return &GuardViolationError{
				Guard:  "cf-bounds",
				Detail: fmt.Sprintf("capacity factor %g at index %d outside [0.01, 0.95]", v, i),
			}
		}
	}
	return nil
}
