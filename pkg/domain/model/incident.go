package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// maxClockSkew is the tolerance for CreatedAt timestamps ahead of the
// ingestion clock. Collaborator systems report in local wall time, so a
// small skew is accepted; anything beyond it is rejected as malformed.
const maxClockSkew = 24 * time.Hour

// PrecisionMarker pins an incident to a point on a floor plan
type PrecisionMarker struct {
	FloorID string  `json:"floorId" firestore:"floor_id"`
	X       float64 `json:"x" firestore:"x"`
	Y       float64 `json:"y" firestore:"y"`
}

// Incident represents a single EHS incident report at a location.
// Incidents are immutable once ingested; the risk engine only reads them.
type Incident struct {
	ID         types.IncidentID     `json:"id" firestore:"id"`
	Code       string               `json:"code" firestore:"code"` // Human reference (e.g., "INC-1042")
	LocationID types.LocationID     `json:"locationId" firestore:"location_id"`
	Severity   types.Severity       `json:"severity" firestore:"severity"`
	Type       string               `json:"type" firestore:"type"`
	Status     types.IncidentStatus `json:"status" firestore:"status"`
	Title      string               `json:"title" firestore:"title"`
	CreatedAt  time.Time            `json:"createdAt" firestore:"created_at"`
	ClosedAt   *time.Time           `json:"closedAt,omitempty" firestore:"closed_at"`
	Marker     *PrecisionMarker     `json:"marker,omitempty" firestore:"marker"`
}

// NewIncident creates a validated Incident. Validation happens here, at the
// ingestion boundary: malformed timestamps and unknown enum values are
// rejected instead of flowing into the risk computation as garbage.
func NewIncident(id types.IncidentID, code string, locationID types.LocationID, severity types.Severity, incidentType string, status types.IncidentStatus, title string, createdAt time.Time) (*Incident, error) {
	if id == "" {
		id = types.NewIncidentID()
	}
	incident := &Incident{
		ID:         id,
		Code:       code,
		LocationID: locationID,
		Severity:   severity,
		Type:       incidentType,
		Status:     status,
		Title:      title,
		CreatedAt:  createdAt,
	}
	if err := incident.Validate(time.Now()); err != nil {
		return nil, err
	}
	return incident, nil
}

// Validate checks the incident against the ingestion contract
func (x *Incident) Validate(now time.Time) error {
	if x.ID == "" {
		return goerr.New("incident ID is required")
	}
	if x.LocationID == "" {
		return goerr.New("incident location ID is required",
			goerr.V("incidentID", x.ID))
	}
	if !x.Severity.IsValid() {
		return goerr.New("unknown incident severity",
			goerr.V("incidentID", x.ID),
			goerr.V("severity", x.Severity))
	}
	if !x.Status.IsValid() {
		return goerr.New("unknown incident status",
			goerr.V("incidentID", x.ID),
			goerr.V("status", x.Status))
	}
	if x.CreatedAt.IsZero() {
		return goerr.New("incident creation time is required",
			goerr.V("incidentID", x.ID))
	}
	if x.CreatedAt.After(now.Add(maxClockSkew)) {
		return goerr.New("incident creation time is in the future",
			goerr.V("incidentID", x.ID),
			goerr.V("createdAt", x.CreatedAt))
	}
	if x.ClosedAt != nil && x.ClosedAt.Before(x.CreatedAt) {
		return goerr.New("incident closed before it was created",
			goerr.V("incidentID", x.ID),
			goerr.V("createdAt", x.CreatedAt),
			goerr.V("closedAt", *x.ClosedAt))
	}
	return nil
}

// HasMarker returns true if the incident is pinned on a floor plan
func (x *Incident) HasMarker() bool {
	return x.Marker != nil
}
