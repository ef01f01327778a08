package model

import (
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// SeverityCounts tallies incidents by severity. Incidents with severity
// "none" contribute to totals but not to any of the four buckets.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add tallies one incident of the given severity
func (c *SeverityCounts) Add(s types.Severity) {
	switch s {
	case types.SeverityCritical:
		c.Critical++
	case types.SeverityHigh:
		c.High++
	case types.SeverityMedium:
		c.Medium++
	case types.SeverityLow:
		c.Low++
	}
}

// Merge adds another tally into this one
func (c *SeverityCounts) Merge(o SeverityCounts) {
	c.Critical += o.Critical
	c.High += o.High
	c.Medium += o.Medium
	c.Low += o.Low
}

// Sum returns the number of tallied incidents (severity "none" excluded)
func (c SeverityCounts) Sum() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// StatusCounts tallies incidents by status
type StatusCounts struct {
	Open          int `json:"open"`
	Investigation int `json:"investigation"`
	Review        int `json:"review"`
	Closed        int `json:"closed"`
}

// Add tallies one incident of the given status
func (c *StatusCounts) Add(s types.IncidentStatus) {
	switch s {
	case types.IncidentStatusOpen:
		c.Open++
	case types.IncidentStatusInvestigation:
		c.Investigation++
	case types.IncidentStatusReview:
		c.Review++
	case types.IncidentStatusClosed:
		c.Closed++
	}
}

// Merge adds another tally into this one
func (c *StatusCounts) Merge(o StatusCounts) {
	c.Open += o.Open
	c.Investigation += o.Investigation
	c.Review += o.Review
	c.Closed += o.Closed
}

// Active returns the count of incidents still needing attention
func (c StatusCounts) Active() int {
	return c.Open + c.Investigation + c.Review
}

// RiskCounts is a full incident tally for one location or subtree
type RiskCounts struct {
	Total          int            `json:"total"`
	BySeverity     SeverityCounts `json:"bySeverity"`
	ByStatus       StatusCounts   `json:"byStatus"`
	ByType         map[string]int `json:"byType,omitempty"`
	CurrentPeriod  int            `json:"currentPeriod"`  // Incidents in [now-P, now)
	PreviousPeriod int            `json:"previousPeriod"` // Incidents in [now-2P, now-P)
}

// Merge adds another tally into this one
func (c *RiskCounts) Merge(o RiskCounts) {
	c.Total += o.Total
	c.BySeverity.Merge(o.BySeverity)
	c.ByStatus.Merge(o.ByStatus)
	if len(o.ByType) > 0 {
		if c.ByType == nil {
			c.ByType = make(map[string]int, len(o.ByType))
		}
		for k, v := range o.ByType {
			c.ByType[k] += v
		}
	}
	c.CurrentPeriod += o.CurrentPeriod
	c.PreviousPeriod += o.PreviousPeriod
}

// Clone returns a deep copy
func (c RiskCounts) Clone() RiskCounts {
	out := c
	if c.ByType != nil {
		out.ByType = make(map[string]int, len(c.ByType))
		for k, v := range c.ByType {
			out.ByType[k] = v
		}
	}
	return out
}

// Trend compares incident volume between the current and previous period
type Trend struct {
	Direction types.TrendDirection `json:"direction"`
	Percent   int                  `json:"percent"` // Raw signed change, retained in all branches
	Current   int                  `json:"current"`
	Previous  int                  `json:"previous"`
}

// ScoreComponents breaks a safety score down into its terms
type ScoreComponents struct {
	Base            int     `json:"base"`
	SeverityPenalty float64 `json:"severityPenalty"`
	OpenPenalty     int     `json:"openPenalty"`
	TrendAdjustment float64 `json:"trendAdjustment"`
	RecencyBonus    int     `json:"recencyBonus"`
}

// ScoreBreakdown is the full result of the safety score model
type ScoreBreakdown struct {
	Score           int                `json:"score"` // Bounded to [0, 100]
	Category        types.RiskCategory `json:"category"`
	Components      ScoreComponents    `json:"components"`
	Recommendations []string           `json:"recommendations"`
}

// Clone returns a deep copy
func (b ScoreBreakdown) Clone() ScoreBreakdown {
	out := b
	out.Recommendations = append([]string(nil), b.Recommendations...)
	return out
}

// LocationRiskData is the derived risk profile of one location. It is a
// fresh value per computation, keyed by LocationID in the result map, and
// must never be mutated by consumers.
type LocationRiskData struct {
	LocationID types.LocationID `json:"locationId"`

	// Direct covers incidents reported at this location itself.
	// Total covers the whole subtree after rollup; before rollup the
	// two are identical. Rollup derives Total exclusively from Direct,
	// which is what makes re-applying it idempotent.
	Direct RiskCounts `json:"direct"`
	Total  RiskCounts `json:"total"`

	HighestSeverity       types.Severity `json:"highestSeverity"`
	DaysSinceLastIncident *int           `json:"daysSinceLastIncident,omitempty"` // nil when no incidents
	Trend                 Trend          `json:"trend"`
	Safety                ScoreBreakdown `json:"safety"`
	Sparkline             []int          `json:"sparkline,omitempty"` // One bucket per day, most recent last
	MappedCount           int            `json:"mappedCount"`         // Incidents with a precision marker
}

// Clone returns a deep copy
func (d *LocationRiskData) Clone() *LocationRiskData {
	out := *d
	out.Direct = d.Direct.Clone()
	out.Total = d.Total.Clone()
	if d.DaysSinceLastIncident != nil {
		v := *d.DaysSinceLastIncident
		out.DaysSinceLastIncident = &v
	}
	out.Safety = d.Safety.Clone()
	if d.Sparkline != nil {
		out.Sparkline = append([]int(nil), d.Sparkline...)
	}
	return &out
}

// RiskMap is the derived map of location risk profiles
type RiskMap map[types.LocationID]*LocationRiskData

// Clone returns a deep copy of the map
func (m RiskMap) Clone() RiskMap {
	out := make(RiskMap, len(m))
	for id, data := range m {
		out[id] = data.Clone()
	}
	return out
}
