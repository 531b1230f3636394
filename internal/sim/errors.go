package sim

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDistribution is returned by Sample for a distribution kind
// outside {triangular, lognormal, constant}. It never silently defaults.
var ErrUnsupportedDistribution = errors.New("unsupported distribution")

// ErrInvalidOperatingState marks a numeric precondition violation (non-positive
// energy or power) in the LCOE calculation. Fatal for the trial.
var ErrInvalidOperatingState = errors.New("invalid operating state")

// GuardViolationError is a fatal invariant violation: it signals a defect in
// model wiring or parameters rather than expected input variability, so the
// trial aborts instead of being coerced into a valid-looking result.
type GuardViolationError struct {
	Guard  string
	Detail string
}

func (e *GuardViolationError) Error() string {
	return fmt.Sprintf("guard violation [%s]: %s", e.Guard, e.Detail)
}
