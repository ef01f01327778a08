package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/risk"
)

// RiskConfig holds configuration for the Risk use case
type RiskConfig struct {
	periodDays int
	sparkline  bool
	rollupMode types.RollupMode
	scoring    *model.ScoringConfig
}

// RiskOption is a functional option for configuring Risk
type RiskOption func(*RiskConfig)

// WithPeriodDays sets the trend comparison window
func WithPeriodDays(days int) RiskOption {
	return func(c *RiskConfig) {
		if days > 0 {
			c.periodDays = days
		}
	}
}

// WithSparkline enables sparkline computation
func WithSparkline() RiskOption {
	return func(c *RiskConfig) {
		c.sparkline = true
	}
}

// WithRollupMode sets the rollup mode
func WithRollupMode(mode types.RollupMode) RiskOption {
	return func(c *RiskConfig) {
		if mode.IsValid() {
			c.rollupMode = mode
		}
	}
}

// WithScoringConfig sets the safety score configuration
func WithScoringConfig(cfg *model.ScoringConfig) RiskOption {
	return func(c *RiskConfig) {
		if cfg != nil {
			c.scoring = cfg
		}
	}
}

// Risk implements RiskUseCase. The computation is pure and bounded, so the
// only state is a memo of the last result keyed by the repository revision:
// any write invalidates it via the revision counter.
type Risk struct {
	repo   interfaces.Repository
	config *RiskConfig

	mu       sync.Mutex
	memoRev  types.Revision
	memoOK   bool
	direct   *risk.Result
	rolledUp model.RiskMap
}

// NewRisk creates a new Risk use case
func NewRisk(repo interfaces.Repository, opts ...RiskOption) *Risk {
	config := &RiskConfig{
		periodDays: risk.DefaultPeriodDays,
		rollupMode: types.RollupRecompute,
		scoring:    model.DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return &Risk{
		repo:   repo,
		config: config,
	}
}

// ComputeRisk aggregates stored incidents into direct risk profiles
func (u *Risk) ComputeRisk(ctx context.Context) (*risk.Result, error) {
	direct, _, err := u.compute(ctx)
	if err != nil {
		return nil, err
	}

	// Callers must not see the memoized maps
	return &risk.Result{
		Risks:      direct.Risks.Clone(),
		ByLocation: cloneIncidentGroups(direct.ByLocation),
		Mapped:     cloneIncidentGroups(direct.Mapped),
	}, nil
}

// RolledUp returns the risk map after rollup over the stored location tree
func (u *Risk) RolledUp(ctx context.Context) (model.RiskMap, error) {
	_, rolled, err := u.compute(ctx)
	if err != nil {
		return nil, err
	}
	return rolled.Clone(), nil
}

// LocationRisk returns one location's rolled-up profile and its
// precision-marker incident subset
func (u *Risk) LocationRisk(ctx context.Context, id types.LocationID) (*model.LocationRiskData, []*model.Incident, error) {
	if id == "" {
		return nil, nil, goerr.New("location ID is empty")
	}

	direct, rolled, err := u.compute(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, ok := rolled[id]
	if !ok {
		return nil, nil, goerr.Wrap(model.ErrLocationNotFound, "no risk data for location",
			goerr.V("locationID", id))
	}

	return data.Clone(), append([]*model.Incident(nil), direct.Mapped[id]...), nil
}

// cloneIncidentGroups copies a grouping map and its slices. Incidents are
// immutable once ingested, so the elements themselves can be shared.
func cloneIncidentGroups(groups map[types.LocationID][]*model.Incident) map[types.LocationID][]*model.Incident {
	out := make(map[types.LocationID][]*model.Incident, len(groups))
	for id, incidents := range groups {
		out[id] = append([]*model.Incident(nil), incidents...)
	}
	return out
}

// compute runs the aggregate-then-rollup pipeline, reusing the memoized
// result when the repository revision has not moved.
func (u *Risk) compute(ctx context.Context) (*risk.Result, model.RiskMap, error) {
	rev, err := u.repo.Revision(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get repository revision")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.memoOK && u.memoRev == rev {
		return u.direct, u.rolledUp, nil
	}

	incidents, err := u.repo.ListIncidents(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to list incidents")
	}
	locations, err := u.repo.ListLocations(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to list locations")
	}

	tree, err := model.NewLocationTree(locations)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid location snapshot")
	}

	// Process every tree location plus any incident location missing
	// from the snapshot, so partial syncs still produce risk data
	targets := tree.IDs()
	known := make(map[types.LocationID]bool, len(targets))
	for _, id := range targets {
		known[id] = true
	}
	for _, incident := range incidents {
		if !known[incident.LocationID] {
			known[incident.LocationID] = true
			targets = append(targets, incident.LocationID)
		}
	}

	aggOpts := []risk.Option{
		risk.WithPeriodDays(u.config.periodDays),
		risk.WithScoring(u.config.scoring),
	}
	if u.config.sparkline {
		aggOpts = append(aggOpts, risk.WithSparkline())
	}

	direct := risk.NewAggregator(aggOpts...).Aggregate(incidents, targets...)
	rolled := risk.Rollup(tree, direct.Risks, u.config.rollupMode, u.config.scoring)

	u.memoRev = rev
	u.memoOK = true
	u.direct = direct
	u.rolledUp = rolled

	ctxlog.From(ctx).Debug("Recomputed risk map",
		"revision", rev,
		"incidents", len(incidents),
		"locations", len(targets),
	)

	return direct, rolled, nil
}

var _ RiskUseCase = (*Risk)(nil) // Compile-time interface check
