package sim

import (
	"fmt"
	"math"
)

const hoursPerYear = 8760

// CRF is the capital recovery factor r(1+r)^n / ((1+r)^n - 1), converting a
// lump capital cost into the equivalent annuity over n years. The zero-rate
// limiting case is 1/n.
func CRF(r float64, n int) float64 {
	if r == 0 {
		return 1.0 / float64(n)
	}
	f := math.Pow(1.0+r, float64(n))
	return r * f / (f - 1.0)
}

// LCOESeries aggregates annualized CAPEX, fixed O&M, and variable O&M into
// $/MWh per year. netPower is a series (MW) reflecting power-output learning;
// vom is already $/MWh. Energy must be strictly positive in every year; a
// zero or negative capacity factor or power is a precondition violation.
func LCOESeries(capex, cf, fom, vom, netPower []float64, wacc float64, lifeYears int) ([]float64, error) {
	crf := CRF(wacc, lifeYears)
	lcoe := make([]float64, len(capex))
	for i := range capex {
		energyMWh := hoursPerYear * cf[i] * netPower[i]
		if energyMWh <= 0 {
			return nil, fmt.Errorf("%w: year index %d: energy %g MWh (cf=%g, power=%g MW)",
				ErrInvalidOperatingState, i, energyMWh, cf[i], netPower[i])
		}
		lcoe[i] = crf*capex[i]/energyMWh + fom[i]/energyMWh + vom[i]
	}
	return lcoe, nil
}
