package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

func validIncident(now time.Time) *model.Incident {
	return &model.Incident{
		ID:         types.NewIncidentID(),
		Code:       "INC-1042",
		LocationID: "loc-a",
		Severity:   types.SeverityMedium,
		Type:       "slip",
		Status:     types.IncidentStatusOpen,
		Title:      "Wet floor near loading dock",
		CreatedAt:  now.Add(-48 * time.Hour),
	}
}

func TestIncidentValidate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("valid incident passes", func(t *testing.T) {
		gt.NoError(t, validIncident(now).Validate(now))
	})

	t.Run("missing ID", func(t *testing.T) {
		incident := validIncident(now)
		incident.ID = ""
		gt.Error(t, incident.Validate(now))
	})

	t.Run("missing location", func(t *testing.T) {
		incident := validIncident(now)
		incident.LocationID = ""
		gt.Error(t, incident.Validate(now))
	})

	t.Run("unknown severity", func(t *testing.T) {
		incident := validIncident(now)
		incident.Severity = "catastrophic"
		gt.Error(t, incident.Validate(now))
	})

	t.Run("unknown status", func(t *testing.T) {
		incident := validIncident(now)
		incident.Status = "pending"
		gt.Error(t, incident.Validate(now))
	})

	t.Run("zero creation time", func(t *testing.T) {
		incident := validIncident(now)
		incident.CreatedAt = time.Time{}
		gt.Error(t, incident.Validate(now))
	})

	t.Run("creation time far in the future", func(t *testing.T) {
		incident := validIncident(now)
		incident.CreatedAt = now.Add(48 * time.Hour)
		gt.Error(t, incident.Validate(now))
	})

	t.Run("creation time within clock skew", func(t *testing.T) {
		incident := validIncident(now)
		incident.CreatedAt = now.Add(time.Hour)
		gt.NoError(t, incident.Validate(now))
	})

	t.Run("closed before created", func(t *testing.T) {
		incident := validIncident(now)
		closed := incident.CreatedAt.Add(-time.Hour)
		incident.ClosedAt = &closed
		gt.Error(t, incident.Validate(now))
	})

	t.Run("closed after created", func(t *testing.T) {
		incident := validIncident(now)
		closed := incident.CreatedAt.Add(time.Hour)
		incident.ClosedAt = &closed
		gt.NoError(t, incident.Validate(now))
	})
}

func TestNewIncidentFillsID(t *testing.T) {
	incident := gt.R1(model.NewIncident(
		"", "INC-1", "loc-a",
		types.SeverityLow, "slip", types.IncidentStatusOpen,
		"test", time.Now().Add(-time.Hour),
	)).NoError(t)

	gt.NotEqual(t, incident.ID, types.IncidentID(""))
}

func TestIncidentHasMarker(t *testing.T) {
	now := time.Now()
	incident := validIncident(now)
	gt.False(t, incident.HasMarker())

	incident.Marker = &model.PrecisionMarker{FloorID: "floor-2", X: 0.5, Y: 0.25}
	gt.True(t, incident.HasMarker())
}
