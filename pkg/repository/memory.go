package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu        sync.RWMutex
	incidents map[types.IncidentID]*model.Incident
	locations map[types.LocationID]*model.Location
	revision  types.Revision
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		incidents: make(map[types.IncidentID]*model.Incident),
		locations: make(map[types.LocationID]*model.Location),
	}
}

// PutIncident saves an incident to memory
func (m *Memory) PutIncident(ctx context.Context, incident *model.Incident) error {
	if incident == nil {
		return goerr.New("incident is nil")
	}
	if incident.ID == "" {
		return goerr.New("incident ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Deep copy to prevent external modifications
	incidentCopy := *incident
	m.incidents[incident.ID] = &incidentCopy
	m.revision++

	return nil
}

// GetIncident retrieves an incident by ID
func (m *Memory) GetIncident(ctx context.Context, id types.IncidentID) (*model.Incident, error) {
	if id == "" {
		return nil, goerr.New("incident ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	incident, exists := m.incidents[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrIncidentNotFound, "failed to get incident",
			goerr.V("incidentID", id))
	}

	// Return a copy to prevent external modifications
	incidentCopy := *incident
	return &incidentCopy, nil
}

// ListIncidents retrieves all incidents, newest first
func (m *Memory) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	incidents := make([]*model.Incident, 0, len(m.incidents))
	for _, incident := range m.incidents {
		incidentCopy := *incident
		incidents = append(incidents, &incidentCopy)
	}

	sortIncidents(incidents)
	return incidents, nil
}

// ListIncidentsByLocation retrieves incidents for one location, newest first
func (m *Memory) ListIncidentsByLocation(ctx context.Context, locationID types.LocationID) ([]*model.Incident, error) {
	if locationID == "" {
		return nil, goerr.New("location ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var incidents []*model.Incident
	for _, incident := range m.incidents {
		if incident.LocationID == locationID {
			incidentCopy := *incident
			incidents = append(incidents, &incidentCopy)
		}
	}

	sortIncidents(incidents)
	return incidents, nil
}

// PutLocation saves a location to memory
func (m *Memory) PutLocation(ctx context.Context, location *model.Location) error {
	if location == nil {
		return goerr.New("location is nil")
	}
	if location.ID == "" {
		return goerr.New("location ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	locationCopy := *location
	m.locations[location.ID] = &locationCopy
	m.revision++

	return nil
}

// GetLocation retrieves a location by ID
func (m *Memory) GetLocation(ctx context.Context, id types.LocationID) (*model.Location, error) {
	if id == "" {
		return nil, goerr.New("location ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	location, exists := m.locations[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrLocationNotFound, "failed to get location",
			goerr.V("locationID", id))
	}

	locationCopy := *location
	return &locationCopy, nil
}

// ListLocations retrieves all locations sorted by ID
func (m *Memory) ListLocations(ctx context.Context) ([]*model.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locations := make([]*model.Location, 0, len(m.locations))
	for _, location := range m.locations {
		locationCopy := *location
		locations = append(locations, &locationCopy)
	}

	sort.Slice(locations, func(i, j int) bool {
		return locations[i].ID < locations[j].ID
	})

	return locations, nil
}

// Revision returns the current write revision
func (m *Memory) Revision(ctx context.Context) (types.Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision, nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}

// Clear clears all data (useful for testing)
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incidents = make(map[types.IncidentID]*model.Incident)
	m.locations = make(map[types.LocationID]*model.Location)
	m.revision = 0
}

// sortIncidents orders incidents newest first, with ID as tiebreaker
// for deterministic output
func sortIncidents(incidents []*model.Incident) {
	sort.Slice(incidents, func(i, j int) bool {
		if !incidents[i].CreatedAt.Equal(incidents[j].CreatedAt) {
			return incidents[i].CreatedAt.After(incidents[j].CreatedAt)
		}
		return incidents[i].ID < incidents[j].ID
	})
}

var _ interfaces.Repository = (*Memory)(nil) // Compile-time interface check
