package sim

import "math"

// Demand-driven buildout: global demand growth x market-share S-curve x
// reactor conversion, plus end-of-life replacement. This is a separately
// invokable adoption strategy; RunTrial does not use it.

// ElectricityDemandTWh projects global electricity demand with exponential
// growth from a base year.
func ElectricityDemandTWh(years []int, baseYear int, baseDemandTWh, growthRate float64) []float64 {
	d := make([]float64, len(years))
	for i, y := range years {
		d[i] = baseDemandTWh * math.Exp(growthRate*float64(y-baseYear))
	}
	return d
}

// FusionMarketShare returns the market-penetration S-curve given the fusion
// LCOE trajectory. Penetration starts in the first year fusion undercuts the
// competitor price, reaches half of maxShare ten years later, and is zero in
// every pre-competitive year. If fusion never becomes competitive within the
// horizon the share is zero throughout.
func FusionMarketShare(years []int, lcoeFusion []float64, lcoeCompetitor, k, maxShare float64) []float64 {
	share := make([]float64, len(years))

	tStart := -1
	for i := range years {
		if lcoeFusion[i] < lcoeCompetitor {
			tStart = years[i]
			break
		}
	}
	if tStart < 0 {
		return share
	}
	tMid := float64(tStart + 10)

	for i, y := range years {
		if y < tStart {
			continue
		}
		share[i] = maxShare / (1.0 + math.Exp(-k*(float64(y)-tMid)))
	}
	return share
}

// ReactorBuildoutFromDemand converts demand and market share into the
// cumulative reactor count needed to serve it.
func ReactorBuildoutFromDemand(demandTWh, marketShare []float64, reactorCapacityGW, capacityFactor float64) []float64 {
	n := make([]float64, len(demandTWh))
	for i := range demandTWh {
		genTWh := demandTWh[i] * marketShare[i]
		avgGW := genTWh * 1000 / hoursPerYear
		nameplateGW := avgGW / capacityFactor
		n[i] = nameplateGW / reactorCapacityGW
	}
	return n
}

// AnnualAdditions derives yearly reactor additions from a cumulative
// trajectory, including replacement of units retiring after replaceAfterYears.
func AnnualAdditions(nCumulative []float64, replaceAfterYears int) []float64 {
	adds := make([]float64, len(nCumulative))
	prev := 0.0
	for i, n := range nCumulative {
		adds[i] = math.Max(0, n-prev)
		prev = n
	}
	for i := len(adds) - 1; i >= replaceAfterYears; i-- {
		adds[i] += adds[i-replaceAfterYears]
	}
	return adds
}
