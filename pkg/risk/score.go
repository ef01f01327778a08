package risk

import (
	"math"

	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

const (
	maxSeverityPenalty = 60.0
	maxOpenPenalty     = 20
	openPenaltyPerUnit = 3
	criticalMultiplier = 1.5
)

// Score converts an incident tally into a bounded 0-100 safety score with
// category and recommendations. It is pure: the same inputs always yield the
// same breakdown, including the order of recommendations.
func Score(counts model.RiskCounts, trend model.Trend, daysSince *int, cfg *model.ScoringConfig) model.ScoreBreakdown {
	if cfg == nil {
		cfg = model.DefaultScoringConfig()
	}

	components := model.ScoreComponents{
		Base:            incidentBase(counts.Total),
		SeverityPenalty: severityPenalty(counts.BySeverity, cfg.Weights),
		OpenPenalty:     openPenalty(counts.ByStatus),
		TrendAdjustment: trendAdjustment(trend),
		RecencyBonus:    recencyBonus(daysSince),
	}

	raw := float64(components.Base) -
		components.SeverityPenalty -
		float64(components.OpenPenalty) +
		components.TrendAdjustment +
		float64(components.RecencyBonus)

	score := clamp(int(math.Round(raw)), 0, 100)
	category := cfg.Categorize(score)

	return model.ScoreBreakdown{
		Score:           score,
		Category:        category,
		Components:      components,
		Recommendations: recommendations(category, counts, trend, daysSince),
	}
}

// incidentBase decays logarithmically with total incident count
func incidentBase(total int) int {
	if total == 0 {
		return 100
	}
	base := int(math.Round(100 - math.Log(float64(total)+1)*20))
	if base < 0 {
		return 0
	}
	return base
}

func severityPenalty(c model.SeverityCounts, w model.SeverityWeights) float64 {
	penalty := float64(c.Critical)*w.Critical*criticalMultiplier +
		float64(c.High)*w.High +
		float64(c.Medium)*w.Medium +
		float64(c.Low)*w.Low
	return math.Min(maxSeverityPenalty, penalty)
}

func openPenalty(c model.StatusCounts) int {
	penalty := c.Active() * openPenaltyPerUnit
	if penalty > maxOpenPenalty {
		return maxOpenPenalty
	}
	return penalty
}

func trendAdjustment(trend model.Trend) float64 {
	pct := math.Abs(float64(trend.Percent))
	switch trend.Direction {
	case types.TrendImproving:
		return math.Min(10, pct/5)
	case types.TrendWorsening:
		return -math.Min(15, pct/3)
	default:
		return 0
	}
}

// recencyBonus rewards quiet locations. A nil daysSince means no incidents
// at all, which earns the full bonus.
func recencyBonus(daysSince *int) int {
	if daysSince == nil {
		return 10
	}
	days := *daysSince
	switch {
	case days > 365:
		return 10
	case days > 180:
		return 7
	case days > 90:
		return 5
	case days > 30:
		return 3
	case days > 7:
		return 1
	default:
		return 0
	}
}

// recommendations builds the fixed advisory strings for a score breakdown.
// The order is stable: category advisories first, then the recent-incident
// monitoring note.
func recommendations(category types.RiskCategory, counts model.RiskCounts, trend model.Trend, daysSince *int) []string {
	var recs []string

	switch category {
	case types.RiskCategoryCritical:
		recs = append(recs, "Safety score is critical: escalate this location for immediate review.")
		if counts.BySeverity.Critical > 0 {
			recs = append(recs, "Resolve critical-severity incidents before resuming normal operations.")
		}
		if counts.ByStatus.Active() > 3 {
			recs = append(recs, "Reduce the open incident backlog; more than three incidents remain unresolved.")
		}
	case types.RiskCategoryWarning:
		recs = append(recs, "Safety score is below target: schedule a safety review for this location.")
		if trend.Direction == types.TrendWorsening {
			recs = append(recs, "Incident volume is trending upward; investigate recent changes at this location.")
		}
		if counts.BySeverity.High > 2 {
			recs = append(recs, "Multiple high-severity incidents recorded; audit safety controls at this location.")
		}
	default:
		recs = append(recs, "Safety posture is good: maintain current practices.")
	}

	if daysSince != nil && *daysSince < 7 {
		recs = append(recs, "An incident occurred within the last 7 days; monitor this location closely.")
	}

	return recs
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
