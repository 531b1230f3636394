package mc

import (
	"fmt"
	"sort"

	"fmvalue/internal/sim"
)

// Metric names a per-year series of a TrialRecord.
type Metric string

const (
	MetricLCOE  Metric = "lcoe"
	MetricCapex Metric = "capex"
	MetricN     Metric = "n"
	MetricCF    Metric = "cf"
)

func series(r *sim.TrialRecord, m Metric) ([]float64, error) {
	switch m {
	case MetricLCOE:
		return r.LCOE, nil
	case MetricCapex:
		return r.Capex, nil
	case MetricN:
		return r.N, nil
	case MetricCF:
		return r.CF, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", m)
	}
}

// Quantiles holds per-year cross-trial quantiles of one metric.
type Quantiles struct {
	Metric Metric
	Years  []int
	P10    []float64
	P50    []float64
	P90    []float64
}

// Quantiles computes p10/p50/p90 of the metric across all records for each
// year. Trial year axes can differ in starting year (t0 is a sampled-adjacent
// parameter); aggregation aligns on calendar year and only keeps years
// present in every record.
func (b *Batch) Quantiles(m Metric) (*Quantiles, error) {
	if len(b.Records) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	years := commonYears(b.Records)
	q := &Quantiles{
		Metric: m,
		Years:  years,
		P10:    make([]float64, len(years)),
		P50:    make([]float64, len(years)),
		P90:    make([]float64, len(years)),
	}

	vals := make([]float64, len(b.Records))
	for yi, year := range years {
		for ri, rec := range b.Records {
			s, err := series(rec, m)
			if err != nil {
				return nil, err
			}
			vals[ri] = s[year-rec.Years[0]]
		}
		sort.Float64s(vals)
		q.P10[yi] = quantile(vals, 0.10)
		q.P50[yi] = quantile(vals, 0.50)
		q.P90[yi] = quantile(vals, 0.90)
	}
	return q, nil
}

// YearWhen returns the first year the cross-trial median of the metric
// reaches (<=) the target, or ok=false if it never does within the horizon.
func (b *Batch) YearWhen(m Metric, target float64) (year int, ok bool, err error) {
	q, err := b.Quantiles(m)
	if err != nil {
		return 0, false, err
	}
	for i, y := range q.Years {
		if q.P50[i] <= target {
			return y, true, nil
		}
	}
	return 0, false, nil
}

// MedianAt returns the cross-trial median of the metric at a calendar year.
func (b *Batch) MedianAt(m Metric, year int) (float64, error) {
	q, err := b.Quantiles(m)
	if err != nil {
		return 0, err
	}
	for i, y := range q.Years {
		if y == year {
			return q.P50[i], nil
		}
	}
	return 0, fmt.Errorf("year %d outside aggregated horizon [%d, %d]", year, q.Years[0], q.Years[len(q.Years)-1])
}

// commonYears intersects the year axes of all records: latest start through
// earliest end.
func commonYears(records []*sim.TrialRecord) []int {
	start := records[0].Years[0]
	end := records[0].Years[len(records[0].Years)-1]
	for _, r := range records[1:] {
		if r.Years[0] > start {
			start = r.Years[0]
		}
		if last := r.Years[len(r.Years)-1]; last < end {
			end = last
		}
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// quantile interpolates linearly between order statistics of sorted values.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
