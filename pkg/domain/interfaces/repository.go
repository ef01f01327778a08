package interfaces

import (
	"context"

	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Incident operations
	PutIncident(ctx context.Context, incident *model.Incident) error
	GetIncident(ctx context.Context, id types.IncidentID) (*model.Incident, error)
	ListIncidents(ctx context.Context) ([]*model.Incident, error)
	ListIncidentsByLocation(ctx context.Context, locationID types.LocationID) ([]*model.Incident, error)

	// Location operations
	PutLocation(ctx context.Context, location *model.Location) error
	GetLocation(ctx context.Context, id types.LocationID) (*model.Location, error)
	ListLocations(ctx context.Context) ([]*model.Location, error)

	// Revision returns the current write revision. It increases on every
	// successful write and is the cache key for derived risk data.
	Revision(ctx context.Context) (types.Revision, error)

	// Close closes the repository connection
	Close() error
}
