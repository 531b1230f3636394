package sim

import (
	"math"
	"testing"

	"fmvalue/internal/scenario"
)

func testSchedule() scenario.Schedule {
	return scenario.Schedule{
		DesignMonthsMode:     48,
		EPCMonthsMode:        60,
		CommissionMonthsMode: 12,
		ReworkProb:           0.35,
		EPCReworkTailProb:    0.25,
		EPCReworkTailFactor:  0.20,
		UpliftLognormMu:      0.10,
		UpliftLognormSigma:   0.15,
	}
}

func TestResolveSchedule_Defaults(t *testing.T) {
	rs := ResolveSchedule(testSchedule())
	if rs.DesignMonths != 48 || rs.EPCMonths != 60 || rs.CommissionMonths != 12 {
		t.Errorf("modes not carried: %+v", rs)
	}
	if rs.ReworkFactor != defaultReworkFactor {
		t.Errorf("ReworkFactor = %v, want default %v", rs.ReworkFactor, defaultReworkFactor)
	}
}

func TestResolveSchedule_Overrides(t *testing.T) {
	sc := testSchedule()
	dm, rf := 52.5, 0.22
	sc.DesignMonths = &dm
	sc.ReworkFactor = &rf
	rs := ResolveSchedule(sc)
	if rs.DesignMonths != 52.5 {
		t.Errorf("DesignMonths = %v, want sampled 52.5", rs.DesignMonths)
	}
	if rs.ReworkFactor != 0.22 {
		t.Errorf("ReworkFactor = %v, want sampled 0.22", rs.ReworkFactor)
	}
}

func TestDrawScheduleMonths_DeterministicNoNoise(t *testing.T) {
	rs := ResolveSchedule(testSchedule())
	rs.ReworkProb = 0
	rs.TailProb = 0
	rs.UpliftMu = 0
	rs.UpliftSigma = 0

	got := DrawScheduleMonths(rs, nil, NewStream(1))
	if got != 48+60+12 {
		t.Errorf("months = %v, want 120 with all noise off", got)
	}
}

func TestDrawScheduleMonths_BranchesAlwaysTaken(t *testing.T) {
	rs := ResolveSchedule(testSchedule())
	rs.ReworkProb = 1
	rs.TailProb = 1
	rs.ReworkFactor = 0.10
	rs.UpliftMu = 0
	rs.UpliftSigma = 0

	got := DrawScheduleMonths(rs, nil, NewStream(1))
	want := 48*1.10 + 60*1.20 + 12
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("months = %v, want %v with both overruns forced", got, want)
	}
}

// The draw-count contract: every call consumes exactly three draws no matter
// which branches fire, so downstream stream positions stay aligned.
func TestDrawScheduleMonths_FixedDrawCount(t *testing.T) {
	rsNone := ResolveSchedule(testSchedule())
	rsNone.ReworkProb = 0
	rsNone.TailProb = 0

	rsAll := rsNone
	rsAll.ReworkProb = 1
	rsAll.TailProb = 1

	a := NewStream(99)
	b := NewStream(99)
	DrawScheduleMonths(rsNone, nil, a)
	DrawScheduleMonths(rsAll, nil, b)

	if av, bv := a.Float64(), b.Float64(); av != bv {
		t.Errorf("streams diverged after one call: %v vs %v", av, bv)
	}
}

func TestDrawScheduleMonths_KnobsShorten(t *testing.T) {
	rs := ResolveSchedule(testSchedule())
	rs.ReworkProb = 0
	rs.TailProb = 0
	rs.UpliftMu = 0
	rs.UpliftSigma = 0

	knobs := &ScheduleKnobs{DesignTimeReductionPct: 0.25}
	base := DrawScheduleMonths(rs, nil, NewStream(1))
	fm := DrawScheduleMonths(rs, knobs, NewStream(1))
	want := base - 48*0.25
	if math.Abs(fm-want) > 1e-9 {
		t.Errorf("reduced months = %v, want %v", fm, want)
	}
}

func TestDrawScheduleMonths_UpliftMeanPreserving(t *testing.T) {
	rs := ResolveSchedule(testSchedule())
	rs.ReworkProb = 0
	rs.TailProb = 0
	rs.UpliftMu = 0.10
	rs.UpliftSigma = 0.15

	rng := NewStream(5)
	const trials = 200000
	sum := 0.0
	for i := 0; i < trials; i++ {
		sum += DrawScheduleMonths(rs, nil, rng)
	}
	mean := sum / trials
	want := 120 * 1.10
	if math.Abs(mean-want)/want > 0.01 {
		t.Errorf("mean months = %v, want within 1%% of %v", mean, want)
	}
}
