package risk

import (
	"time"

	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// DefaultPeriodDays is the default trend comparison window
const DefaultPeriodDays = 30

// Result holds the output of one aggregation pass
type Result struct {
	// Risks maps each processed location to its direct risk profile
	Risks model.RiskMap
	// ByLocation groups the input incidents by location,
	// insertion order preserved per group
	ByLocation map[types.LocationID][]*model.Incident
	// Mapped is the floor-plan subset: incidents carrying a precision marker
	Mapped map[types.LocationID][]*model.Incident
}

// Aggregator computes per-location risk profiles from a flat incident list.
// It is stateless; a single instance can be shared across goroutines.
type Aggregator struct {
	periodDays int
	sparkline  bool
	now        func() time.Time
	scoring    *model.ScoringConfig
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithPeriodDays sets the trend comparison window in days
func WithPeriodDays(days int) Option {
	return func(a *Aggregator) {
		if days > 0 {
			a.periodDays = days
		}
	}
}

// WithSparkline enables the per-day incident sparkline
func WithSparkline() Option {
	return func(a *Aggregator) {
		a.sparkline = true
	}
}

// WithClock sets the time source, used by tests for deterministic windows
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithScoring sets the safety score configuration
func WithScoring(cfg *model.ScoringConfig) Option {
	return func(a *Aggregator) {
		if cfg != nil {
			a.scoring = cfg
		}
	}
}

// NewAggregator creates an Aggregator with defaults and optional settings
func NewAggregator(opts ...Option) *Aggregator {
	agg := &Aggregator{
		periodDays: DefaultPeriodDays,
		now:        time.Now,
		scoring:    model.DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(agg)
	}
	return agg
}

// Aggregate groups incidents by location and computes each location's direct
// risk profile. When explicit location IDs are given, exactly those locations
// are processed (locations without incidents get an all-zero profile);
// otherwise every location present in the incident list is processed.
func (a *Aggregator) Aggregate(incidents []*model.Incident, locationIDs ...types.LocationID) *Result {
	now := a.now()

	byLocation := make(map[types.LocationID][]*model.Incident)
	var order []types.LocationID
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		if _, seen := byLocation[incident.LocationID]; !seen {
			order = append(order, incident.LocationID)
		}
		byLocation[incident.LocationID] = append(byLocation[incident.LocationID], incident)
	}

	targets := locationIDs
	if len(targets) == 0 {
		targets = order
	}

	result := &Result{
		Risks:      make(model.RiskMap, len(targets)),
		ByLocation: byLocation,
		Mapped:     make(map[types.LocationID][]*model.Incident),
	}

	for _, id := range targets {
		group := byLocation[id]
		result.Risks[id] = a.aggregateLocation(id, group, now)
		for _, incident := range group {
			if incident.HasMarker() {
				result.Mapped[id] = append(result.Mapped[id], incident)
			}
		}
	}

	return result
}

// aggregateLocation computes the direct risk profile for one location
func (a *Aggregator) aggregateLocation(id types.LocationID, incidents []*model.Incident, now time.Time) *model.LocationRiskData {
	data := &model.LocationRiskData{
		LocationID:      id,
		HighestSeverity: types.SeverityNone,
	}

	periodStart := now.AddDate(0, 0, -a.periodDays)
	prevStart := now.AddDate(0, 0, -2*a.periodDays)

	var latest time.Time
	for _, incident := range incidents {
		data.Direct.Total++
		data.Direct.BySeverity.Add(incident.Severity)
		data.Direct.ByStatus.Add(incident.Status)
		if incident.Type != "" {
			if data.Direct.ByType == nil {
				data.Direct.ByType = make(map[string]int)
			}
			data.Direct.ByType[incident.Type]++
		}

		data.HighestSeverity = types.MaxSeverity(data.HighestSeverity, incident.Severity)

		created := incident.CreatedAt
		switch {
		case !created.Before(periodStart) && created.Before(now):
			data.Direct.CurrentPeriod++
		case !created.Before(prevStart) && created.Before(periodStart):
			data.Direct.PreviousPeriod++
		}

		if created.After(latest) {
			latest = created
		}

		if incident.HasMarker() {
			data.MappedCount++
		}
	}

	if !latest.IsZero() {
		days := wholeDays(now.Sub(latest))
		if days < 0 {
			days = 0
		}
		data.DaysSinceLastIncident = &days
	}

	data.Trend = ComputeTrend(data.Direct.CurrentPeriod, data.Direct.PreviousPeriod)

	// Before rollup the subtree totals are just the direct counts
	data.Total = data.Direct.Clone()

	data.Safety = Score(data.Direct, data.Trend, data.DaysSinceLastIncident, a.scoring)

	if a.sparkline {
		data.Sparkline = buildSparkline(incidents, now)
	}

	return data
}
