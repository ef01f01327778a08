package usecase

import (
	"context"

	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/risk"
)

// IngestUseCase defines the interface for the validating write path
type IngestUseCase interface {
	// IngestIncidents validates and stores a batch of incidents.
	// The batch is validated as a whole before any write happens.
	IngestIncidents(ctx context.Context, incidents []*model.Incident) (int, error)

	// PutLocations validates and stores a location snapshot
	PutLocations(ctx context.Context, locations []*model.Location) (int, error)
}

// RiskUseCase defines the interface for the derived risk read path
type RiskUseCase interface {
	// ComputeRisk aggregates the stored incidents into direct
	// per-location risk profiles
	ComputeRisk(ctx context.Context) (*risk.Result, error)

	// RolledUp returns the risk map after rollup over the location tree
	RolledUp(ctx context.Context) (model.RiskMap, error)

	// LocationRisk returns the rolled-up profile of one location along
	// with its floor-plan (precision marker) incident subset
	LocationRisk(ctx context.Context, id types.LocationID) (*model.LocationRiskData, []*model.Incident, error)
}
