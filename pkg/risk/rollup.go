package risk

import (
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// Rollup propagates risk up the location tree: each location's subtree
// totals become its own direct counts plus the totals of all descendants,
// and its highest severity becomes the subtree maximum.
//
// Subtree totals are derived exclusively from Direct counts, so applying
// Rollup to an already rolled-up map yields identical output. Each incident
// belongs to exactly one location, which rules out double counting across
// overlapping subtrees. Well-formed trees are acyclic; a visited set guards
// traversal against malformed input anyway.
//
// Mode recompute (the default) recomputes trend and safety score from the
// rolled-up totals and takes the most recent incident in the subtree for
// the recency measure. Mode preserve-direct keeps the direct-level trend,
// score and recency. The sparkline and mapped-incident count always stay
// direct-only: both describe incidents placed at the location itself.
//
// Locations present in the risk map but absent from the tree are carried
// through unchanged.
func Rollup(tree *model.LocationTree, risks model.RiskMap, mode types.RollupMode, cfg *model.ScoringConfig) model.RiskMap {
	if cfg == nil {
		cfg = model.DefaultScoringConfig()
	}
	if !mode.IsValid() {
		mode = types.RollupRecompute
	}

	out := make(model.RiskMap, len(risks))
	visited := make(map[types.LocationID]bool, tree.Len())

	var walk func(id types.LocationID) *model.LocationRiskData
	walk = func(id types.LocationID) *model.LocationRiskData {
		if visited[id] {
			return nil
		}
		visited[id] = true

		var data *model.LocationRiskData
		if direct, ok := risks[id]; ok {
			data = direct.Clone()
		} else {
			data = zeroRisk(id, cfg)
		}

		total := data.Direct.Clone()
		highest := severityFromCounts(data.Direct.BySeverity)
		days := data.DaysSinceLastIncident

		for _, childID := range tree.Children(id) {
			child := walk(childID)
			if child == nil {
				continue
			}
			total.Merge(child.Total)
			highest = types.MaxSeverity(highest, child.HighestSeverity)
			days = minDays(days, child.DaysSinceLastIncident)
		}

		data.Total = total
		data.HighestSeverity = highest

		if mode == types.RollupRecompute {
			data.DaysSinceLastIncident = days
			data.Trend = ComputeTrend(total.CurrentPeriod, total.PreviousPeriod)
			data.Safety = Score(total, data.Trend, days, cfg)
		}

		out[id] = data
		return data
	}

	for _, root := range tree.Roots() {
		walk(root)
	}

	// Carry through locations that are not part of the tree snapshot
	for id, data := range risks {
		if _, done := out[id]; !done {
			out[id] = data.Clone()
		}
	}

	return out
}

// zeroRisk returns the all-clear profile for a location without incidents
func zeroRisk(id types.LocationID, cfg *model.ScoringConfig) *model.LocationRiskData {
	data := &model.LocationRiskData{
		LocationID:      id,
		HighestSeverity: types.SeverityNone,
	}
	data.Trend = ComputeTrend(0, 0)
	data.Safety = Score(data.Direct, data.Trend, nil, cfg)
	return data
}

// severityFromCounts derives the highest direct severity from a tally.
// All-none tallies (Sum()==0) map back to none, which keeps rollup
// independent of previously rolled-up HighestSeverity values.
func severityFromCounts(c model.SeverityCounts) types.Severity {
	switch {
	case c.Critical > 0:
		return types.SeverityCritical
	case c.High > 0:
		return types.SeverityHigh
	case c.Medium > 0:
		return types.SeverityMedium
	case c.Low > 0:
		return types.SeverityLow
	default:
		return types.SeverityNone
	}
}

// minDays returns the smaller of two optional day counts; nil means
// "no incidents" and loses to any concrete value.
func minDays(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *b < *a {
		return b
	}
	return a
}
