package types

// Severity represents ordinal incident criticality
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// Level returns the ordinal level of the severity.
// The total order is none < low < medium < high < critical.
// Unknown values map to -1 and sort below none.
func (s Severity) Level() int {
	switch s {
	case SeverityNone:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return -1
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	return s.Level() >= 0
}

// MaxSeverity returns the higher of two severities
func MaxSeverity(a, b Severity) Severity {
	if b.Level() > a.Level() {
		return b
	}
	return a
}

// Severities lists all valid severities in ascending order
func Severities() []Severity {
	return []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}
