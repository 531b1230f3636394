package format

import "fmt"

// FmtUSD formats a dollar amount with B/M/K suffix for readability.
func FmtUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FmtPerMWh formats an LCOE component as dollars per megawatt-hour.
func FmtPerMWh(v float64) string {
	return fmt.Sprintf("$%.2f/MWh", v)
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
