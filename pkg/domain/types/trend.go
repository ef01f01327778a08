package types

// TrendDirection represents the direction of the incident trend
// between the current and the previous observation period.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendWorsening TrendDirection = "worsening"
)

// String returns the string representation of the direction
func (d TrendDirection) String() string {
	return string(d)
}

// RiskCategory represents the banded interpretation of a safety score
type RiskCategory string

const (
	RiskCategoryCritical RiskCategory = "critical"
	RiskCategoryWarning  RiskCategory = "warning"
	RiskCategoryGood     RiskCategory = "good"
)

// String returns the string representation of the category
func (c RiskCategory) String() string {
	return string(c)
}

// RollupMode controls how trend and safety score behave during tree rollup
type RollupMode string

const (
	// RollupRecompute recomputes trend and safety score from the
	// rolled-up subtree totals of each location.
	RollupRecompute RollupMode = "recompute"
	// RollupPreserveDirect rolls up counts and highest severity only,
	// keeping each location's direct-level trend and score.
	RollupPreserveDirect RollupMode = "preserve-direct"
)

// String returns the string representation of the mode
func (m RollupMode) String() string {
	return string(m)
}

// IsValid checks if the rollup mode is valid
func (m RollupMode) IsValid() bool {
	switch m {
	case RollupRecompute, RollupPreserveDirect:
		return true
	default:
		return false
	}
}
