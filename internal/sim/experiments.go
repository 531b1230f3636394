package sim

import (
	"math"

	"fmvalue/internal/scenario"
)

// TimeToGateDays estimates calendar days to accumulate enough successful
// shots to pass an engineering gate, accounting for campaign structure: shots
// run only during campaigns, separated by between-campaign gaps.
func TimeToGateDays(shotsPerGate, successProb, shotsPerDay float64, daysPerCampaign, daysBetweenCampaigns int) float64 {
	effShots := shotsPerGate / math.Max(1e-6, successProb)
	daysShots := effShots / math.Max(1, shotsPerDay)
	campaigns := math.Ceil(daysShots / float64(daysPerCampaign))
	gaps := math.Max(0, campaigns-1)
	return daysShots + gaps*float64(daysBetweenCampaigns)
}

// AdjustExperimentInputs applies the experiments intervention channel: fewer
// shots per gate and a higher shot success probability (capped at 0.99).
func AdjustExperimentInputs(exp scenario.Experiments, fm scenario.FMExperiments) (shotsPerGate, successProb float64) {
	shotsPerGate = float64(exp.ShotsPerGate) * (1.0 - fm.ShotsReductionPct)
	successProb = math.Min(0.99, exp.ShotSuccessProb+fm.SuccessProbUplift)
	return shotsPerGate, successProb
}
