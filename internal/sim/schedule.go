package sim

import (
	"math"
	"math/rand/v2"

	"fmvalue/internal/scenario"
)

// defaultReworkFactor applies when no rework-factor override was sampled.
const defaultReworkFactor = 0.1

// ResolvedSchedule is the schedule block with every optional override
// collapsed to a concrete value. Built once per trial by ResolveSchedule;
// downstream code never re-checks field presence.
type ResolvedSchedule struct {
	DesignMonths     float64
	EPCMonths        float64
	CommissionMonths float64

	ReworkProb   float64
	ReworkFactor float64
	TailProb     float64
	TailFactor   float64

	UpliftMu    float64
	UpliftSigma float64
}

// ResolveSchedule collapses sampled overrides onto their mode defaults.
func ResolveSchedule(sc scenario.Schedule) ResolvedSchedule {
	rs := ResolvedSchedule{
		DesignMonths:     orDefault(sc.DesignMonths, sc.DesignMonthsMode),
		EPCMonths:        orDefault(sc.EPCMonths, sc.EPCMonthsMode),
		CommissionMonths: orDefault(sc.CommissionMonths, sc.CommissionMonthsMode),
		ReworkProb:       sc.ReworkProb,
		ReworkFactor:     orDefault(sc.ReworkFactor, defaultReworkFactor),
		TailProb:         sc.EPCReworkTailProb,
		TailFactor:       sc.EPCReworkTailFactor,
		UpliftMu:         sc.UpliftLognormMu,
		UpliftSigma:      sc.UpliftLognormSigma,
	}
	return rs
}

// DrawScheduleMonths runs the single-pass project-duration model and returns
// total months from design start to commercial operation. knobs may be nil
// (baseline). Each call consumes exactly three draws from rng, in the order
// [rework branch, EPC tail branch, uplift], regardless of branch outcomes.
func DrawScheduleMonths(rs ResolvedSchedule, knobs *ScheduleKnobs, rng *rand.Rand) float64 {
	design := rs.DesignMonths
	reworkProb := rs.ReworkProb
	if knobs != nil {
		design *= 1.0 - knobs.DesignTimeReductionPct
		reworkProb *= 1.0 - knobs.ReworkProbReductionPct
	}
	if rng.Float64() < reworkProb {
		design *= 1.0 + rs.ReworkFactor
	}

	epc := rs.EPCMonths
	if rng.Float64() < rs.TailProb {
		epc *= 1.0 + rs.TailFactor
	}

	months := design + epc + rs.CommissionMonths

	// Mean-preserving correction: with underlying normal mean
	// ln(1+mu) - sigma^2/2, the lognormal uplift has expectation 1+mu.
	mean := math.Log(1.0+rs.UpliftMu) - 0.5*rs.UpliftSigma*rs.UpliftSigma
	uplift := math.Exp(mean + rs.UpliftSigma*rng.NormFloat64())

	return months * uplift
}
