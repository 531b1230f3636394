package sim

import "math"

// The adoption curve library. All four models follow the same construction
// rule: compute annual increments, cap each increment by its applicable
// build-rate ceiling, re-integrate cumulatively, and only then clip the
// cumulative result to any overall ceiling. Clipping the cumulative curve
// without capping increments first produces artificial slope discontinuities.

// LogisticN is the unconstrained logistic cumulative curve
// nMax / (1 + exp(-k (t - tMid))).
func LogisticN(years []int, nMax, k, tMid float64) []float64 {
	n := make([]float64, len(years))
	for i, y := range years {
		n[i] = nMax / (1.0 + math.Exp(-k*(float64(y)-tMid)))
	}
	return n
}

// ConstrainedLogistic caps the logistic curve's annual additions at a single
// flat build-rate ceiling and re-integrates.
func ConstrainedLogistic(years []int, nMax, k, tMid, maxBuildRate, n0 float64) []float64 {
	raw := LogisticN(years, nMax, k, tMid)
	ceil := make([]float64, len(years))
	for i := range ceil {
		ceil[i] = maxBuildRate
	}
	return integrateCapped(raw, ceil, n0, nMax)
}

// LogisticWithCeilingRamp caps the logistic curve's annual additions at a
// ceiling that itself grows exponentially from ceilStart toward ceilMax,
// reflecting supply-chain ramp-up.
func LogisticWithCeilingRamp(years []int, nMax, k, tMid, ceilStart, ceilGrowth, ceilMax, n0 float64) []float64 {
	raw := LogisticN(years, nMax, k, tMid)
	y0 := float64(years[0])
	ceil := make([]float64, len(years))
	for i, y := range years {
		ceil[i] = math.Min(ceilStart*math.Exp(ceilGrowth*(float64(y)-y0)), ceilMax)
	}
	return integrateCapped(raw, ceil, n0, nMax)
}

// BottomUpRamp spreads totalCustomers evenly across buildYears, capped at a
// flat per-year ceiling, and holds flat thereafter.
func BottomUpRamp(years []int, totalCustomers float64, buildYears int, maxBuildRate, n0 float64) []float64 {
	perYear := math.Min(totalCustomers/math.Max(1, float64(buildYears)), maxBuildRate)
	n := make([]float64, len(years))
	cum := n0
	for i := range years {
		if i < buildYears {
			cum += perYear
		}
		n[i] = math.Min(cum, totalCustomers+n0)
	}
	return n
}

// ExponentialAdditions grows annual additions exponentially from startAdds at
// rate growth, capped at ceilMax, and integrates monotonically with no
// logistic slowdown within the horizon.
func ExponentialAdditions(years []int, startAdds, growth, ceilMax, n0 float64) []float64 {
	y0 := float64(years[0])
	n := make([]float64, len(years))
	cum := n0
	for i, y := range years {
		adds := math.Min(startAdds*math.Exp(growth*(float64(y)-y0)), ceilMax)
		cum += adds
		n[i] = cum
	}
	return n
}

// integrateCapped turns a raw cumulative curve into increments from n0, caps
// each increment by its per-year ceiling, re-integrates, and clips to nMax.
// Negative raw increments (a shrinking raw curve) contribute nothing: the
// fleet count never decreases.
func integrateCapped(raw, ceiling []float64, n0, nMax float64) []float64 {
	n := make([]float64, len(raw))
	cum := n0
	prev := n0
	for i := range raw {
		inc := raw[i] - prev
		prev = raw[i]
		if inc < 0 {
			inc = 0
		}
		if inc > ceiling[i] {
			inc = ceiling[i]
		}
		cum += inc
		n[i] = math.Min(cum, nMax)
	}
	return n
}
