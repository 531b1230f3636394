package sim

import "math"

// CapexTwoFactor evaluates the two-factor experience curve
//
//	CAPEX(t) = max(floor, capex0 * (N_eff(t)/n0)^(-b) * exp(-g*(t-t0)))
//
// where b is the learning exponent (learning rate = 1 - 2^(-b)) and g an
// exogenous progress rate orthogonal to experience. When inertiaYears > 0,
// N_eff is an exponential moving average of N with that half-life, damping
// short-horizon volatility in the experience variable. N_eff is floored at n0
// so the power-law exponent stays well-defined.
func CapexTwoFactor(n []float64, years []int, capex0, floor, b, g, n0, t0, inertiaYears float64) []float64 {
	nEff := n
	if inertiaYears > 0 {
		alpha := 1.0 - math.Exp(-1.0/math.Max(1e-6, inertiaYears))
		sm := make([]float64, len(n))
		sm[0] = n[0]
		for i := 1; i < len(n); i++ {
			sm[i] = alpha*n[i] + (1-alpha)*sm[i-1]
		}
		nEff = sm
	}

	capex := make([]float64, len(n))
	for i := range n {
		ne := math.Max(nEff[i], n0)
		c := capex0 * math.Pow(ne/n0, -b) * math.Exp(-g*(float64(years[i])-t0))
		capex[i] = math.Max(c, floor)
	}
	return capex
}
