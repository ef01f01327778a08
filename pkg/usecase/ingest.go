package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/utils/async"
)

// Ingest implements IngestUseCase: the validating write path for incidents
// and location snapshots. Unknown severities, unknown statuses and malformed
// timestamps are rejected here so the risk engine never sees them.
type Ingest struct {
	repo interfaces.Repository
	warm RiskUseCase
	now  func() time.Time
}

// IngestOption is a functional option for configuring Ingest
type IngestOption func(*Ingest)

// WithCacheWarmer sets a risk use case whose rolled-up map is recomputed
// in the background after every successful write
func WithCacheWarmer(riskUC RiskUseCase) IngestOption {
	return func(u *Ingest) {
		u.warm = riskUC
	}
}

// WithIngestClock sets the time source used for validation
func WithIngestClock(now func() time.Time) IngestOption {
	return func(u *Ingest) {
		u.now = now
	}
}

// NewIngest creates a new Ingest use case
func NewIngest(repo interfaces.Repository, opts ...IngestOption) *Ingest {
	u := &Ingest{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// IngestIncidents validates and stores a batch of incidents. The whole
// batch is validated before the first write, so a malformed record rejects
// the batch without partial ingestion.
func (u *Ingest) IngestIncidents(ctx context.Context, incidents []*model.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, goerr.New("incident batch is empty")
	}

	now := u.now()
	for i, incident := range incidents {
		if incident == nil {
			return 0, goerr.New("incident is nil", goerr.V("index", i))
		}
		if err := incident.Validate(now); err != nil {
			return 0, goerr.Wrap(err, "invalid incident in batch",
				goerr.V("index", i))
		}
	}

	for _, incident := range incidents {
		if err := u.repo.PutIncident(ctx, incident); err != nil {
			return 0, goerr.Wrap(err, "failed to store incident",
				goerr.V("incidentID", incident.ID))
		}
	}

	ctxlog.From(ctx).Info("Ingested incident batch", "count", len(incidents))
	u.warmCache(ctx)

	return len(incidents), nil
}

// PutLocations validates and stores a location snapshot. The snapshot must
// form a valid tree on its own before any node is written.
func (u *Ingest) PutLocations(ctx context.Context, locations []*model.Location) (int, error) {
	if len(locations) == 0 {
		return 0, goerr.New("location snapshot is empty")
	}

	if _, err := model.NewLocationTree(locations); err != nil {
		return 0, goerr.Wrap(err, "invalid location snapshot")
	}

	for _, location := range locations {
		if err := u.repo.PutLocation(ctx, location); err != nil {
			return 0, goerr.Wrap(err, "failed to store location",
				goerr.V("locationID", location.ID))
		}
	}

	ctxlog.From(ctx).Info("Stored location snapshot", "count", len(locations))
	u.warmCache(ctx)

	return len(locations), nil
}

// warmCache recomputes the rolled-up risk map in the background so the
// next read is served from the memo
func (u *Ingest) warmCache(ctx context.Context) {
	if u.warm == nil {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := u.warm.RolledUp(ctx)
		return err
	})
}

var _ IngestUseCase = (*Ingest)(nil) // Compile-time interface check
