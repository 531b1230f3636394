package sim

import "math"

// Hard clips on the operational learning multipliers, independent of the
// configured asymptotes.
const (
	maxCFMultiplier = 1.80
	minOMMultiplier = 0.40
)

// CFPath builds the capacity-factor commissioning ramp: linear from cf0 to
// cf1 over rampYears, flat at cf1 thereafter, clipped to [0.01, 0.95].
func CFPath(years []int, cf0, cf1 float64, rampYears int) []float64 {
	y0 := float64(years[0])
	cf := make([]float64, len(years))
	for i, y := range years {
		var v float64
		switch {
		case rampYears <= 0:
			v = cf1
		case float64(y) >= y0+float64(rampYears):
			v = cf1
		default:
			v = cf0 + (cf1-cf0)*(float64(y)-y0)/float64(rampYears)
		}
		cf[i] = clip(v, 0.01, 0.95)
	}
	return cf
}

// OpsLearningFactors returns the two saturating operational-learning curves:
// a capacity-factor multiplier rising toward 1+maxCFGain and an O&M cost
// multiplier falling toward 1-maxOMReduction. Each follows
// 1 ± gain*(1 - exp(-Δt/τ_eff)) with τ_eff = τ*(1-boost), so a larger boost
// shortens the effective time constant. Multipliers are clipped to
// [1, 1.80] and [0.40, 1] respectively.
func OpsLearningFactors(years []int, t0, tauCF, tauOM, cfBoost, omBoost, maxCFGain, maxOMReduction float64) (cfMult, omMult []float64) {
	cfMult = make([]float64, len(years))
	omMult = make([]float64, len(years))
	tauCFEff := tauCF*(1.0-cfBoost) + 1e-9
	tauOMEff := tauOM*(1.0-omBoost) + 1e-9
	for i, y := range years {
		dt := float64(y) - t0
		cfMult[i] = clip(1.0+maxCFGain*(1.0-math.Exp(-dt/tauCFEff)), 1.0, maxCFMultiplier)
		omMult[i] = clip(1.0-maxOMReduction*(1.0-math.Exp(-dt/tauOMEff)), minOMMultiplier, 1.0)
	}
	return cfMult, omMult
}

// PowerOutputMultiplier models the net-power learning curve as decade-based
// compounding: multiplier(t) = exp(ln(1+perDecade_eff)/10 * Δt) with
// perDecade_eff = perDecade*(1+fmBoost), capped at cap and floored at 1.
func PowerOutputMultiplier(years []int, t0, perDecade, fmBoost, cap float64) []float64 {
	perDecadeEff := math.Max(0, perDecade) * (1.0 + math.Max(0, fmBoost))
	rate := math.Log(1.0+perDecadeEff) / 10.0
	mult := make([]float64, len(years))
	for i, y := range years {
		dt := math.Max(0, float64(y)-t0)
		mult[i] = clip(math.Exp(rate*dt), 1.0, cap)
	}
	return mult
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
