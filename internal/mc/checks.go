package mc

import (
	"errors"
	"fmt"
)

// Sanity anchors for the default scenario, not hard calibration targets:
// FOAK CAPEX near $10B in 2030 trending toward ~$5B by 2050, baseline LCOE
// approaching $50/MWh by mid-century, and the intervention reaching 5 cents
// a few years earlier than baseline.
const (
	anchorCapex2030Lo = 7e9
	anchorCapex2030Hi = 13e9
	anchorCapex2050Lo = 3.5e9
	anchorCapex2050Hi = 6.0e9
	anchorLCOE2050Max = 60.0

	lcoeTarget        = 50.0 // $/MWh, i.e. 5 cents/kWh
	fmLeadYearsMin    = 2
)

// AcceptanceChecks verifies the aggregate medians of a paired run against the
// anchors. All failures are reported together.
func AcceptanceChecks(base, fm *Batch) error {
	var errs []error

	capex2030, err := base.MedianAt(MetricCapex, 2030)
	if err != nil {
		return err
	}
	if capex2030 < anchorCapex2030Lo || capex2030 > anchorCapex2030Hi {
		errs = append(errs, fmt.Errorf("CAPEX@2030 median $%.1fB outside [$%.0fB, $%.0fB]",
			capex2030/1e9, anchorCapex2030Lo/1e9, anchorCapex2030Hi/1e9))
	}

	capex2050, err := base.MedianAt(MetricCapex, 2050)
	if err != nil {
		return err
	}
	if capex2050 < anchorCapex2050Lo || capex2050 > anchorCapex2050Hi {
		errs = append(errs, fmt.Errorf("CAPEX@2050 median $%.1fB outside [$%.1fB, $%.1fB]",
			capex2050/1e9, anchorCapex2050Lo/1e9, anchorCapex2050Hi/1e9))
	}

	lcoe2050, err := base.MedianAt(MetricLCOE, 2050)
	if err != nil {
		return err
	}
	if lcoe2050 > anchorLCOE2050Max {
		errs = append(errs, fmt.Errorf("baseline LCOE@2050 median $%.1f/MWh exceeds $%.0f/MWh",
			lcoe2050, anchorLCOE2050Max))
	}

	baseYear, baseHit, err := base.YearWhen(MetricLCOE, lcoeTarget)
	if err != nil {
		return err
	}
	fmYear, fmHit, err := fm.YearWhen(MetricLCOE, lcoeTarget)
	if err != nil {
		return err
	}
	if baseHit && fmHit && fmYear > baseYear-fmLeadYearsMin {
		errs = append(errs, fmt.Errorf("intervention reaches $%.0f/MWh in %d, want >= %d years before baseline's %d",
			lcoeTarget, fmYear, fmLeadYearsMin, baseYear))
	}

	return errors.Join(errs...)
}
