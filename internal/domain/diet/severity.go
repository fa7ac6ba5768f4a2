package diet

// Severity buckets a restricted fraction for display
type Severity string

const (
	SeverityFine    Severity = "fine"
	SeverityWarning Severity = "warning"
	SeveritySevere  Severity = "severe"
)

// Default grading bounds
const (
	DefaultWarningThreshold = 0.20
	DefaultSevereThreshold  = 0.40
)

// Grade returns severe above the severe bound, warning above the warning bound,
// fine otherwise
func Grade(fraction, warning, severe float64) Severity {
	switch {
	case fraction > severe:
		return SeveritySevere
	case fraction > warning:
		return SeverityWarning
	default:
		return SeverityFine
	}
}
