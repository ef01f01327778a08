package types

import (
	"github.com/google/uuid"
)

// IncidentID represents an incident identifier
type IncidentID string

// String returns the string representation
func (id IncidentID) String() string {
	return string(id)
}

// NewIncidentID creates a new IncidentID
func NewIncidentID() IncidentID {
	return IncidentID(uuid.New().String())
}

// LocationID represents a location identifier
type LocationID string

// String returns the string representation
func (id LocationID) String() string {
	return string(id)
}

// NewLocationID creates a new LocationID
func NewLocationID() LocationID {
	return LocationID(uuid.New().String())
}

// Revision represents a monotonic repository revision counter.
// Every write bumps it; derived risk data is memoized against it.
type Revision uint64
