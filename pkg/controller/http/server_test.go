package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	controller "github.com/safemon-lab/pallas/pkg/controller/http"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/repository"
	"github.com/safemon-lab/pallas/pkg/usecase"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	repo := repository.NewMemory()
	t.Cleanup(func() { _ = repo.Close() })

	riskUC := usecase.NewRisk(repo)
	ingestUC := usecase.NewIngest(repo)
	server := controller.NewServer(context.Background(), "localhost:0", repo, ingestUC, riskUC)
	return server.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func incidentBody(locationID string, severity types.Severity, age time.Duration) map[string]any {
	return map[string]any{
		"code":       fmt.Sprintf("INC-%s", locationID),
		"locationId": locationID,
		"severity":   severity.String(),
		"type":       "slip",
		"status":     "open",
		"title":      "test incident",
		"createdAt":  time.Now().Add(-age).Format(time.RFC3339),
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["status"], "healthy")
}

func TestIngestEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/incidents", []map[string]any{
		incidentBody("loc-a", types.SeverityHigh, time.Hour),
		incidentBody("loc-b", types.SeverityLow, 2*time.Hour),
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var body map[string]int
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["ingested"], 2)
}

func TestIngestEndpointRejectsMalformedBatch(t *testing.T) {
	handler := newTestServer(t)

	bad := incidentBody("loc-a", types.SeverityHigh, time.Hour)
	bad["severity"] = "catastrophic"
	rec := doJSON(t, handler, http.MethodPost, "/api/incidents", []map[string]any{bad})
	gt.Equal(t, rec.Code, http.StatusBadRequest)

	// Nothing ingested, so the incident list stays empty
	rec = doJSON(t, handler, http.MethodGet, "/api/incidents", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var incidents []*model.Incident
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incidents))
	gt.Equal(t, len(incidents), 0)
}

func TestIngestEndpointRejectsInvalidJSON(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/incidents", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestListIncidentsByLocation(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/incidents", []map[string]any{
		incidentBody("loc-a", types.SeverityHigh, time.Hour),
		incidentBody("loc-a", types.SeverityLow, 2*time.Hour),
		incidentBody("loc-b", types.SeverityLow, time.Hour),
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	rec = doJSON(t, handler, http.MethodGet, "/api/incidents?location=loc-a", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var incidents []*model.Incident
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incidents))
	gt.Equal(t, len(incidents), 2)
	for _, incident := range incidents {
		gt.Equal(t, incident.LocationID, types.LocationID("loc-a"))
	}

	// Unknown location yields an empty list, not an error
	rec = doJSON(t, handler, http.MethodGet, "/api/incidents?location=nowhere", nil)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incidents))
	gt.Equal(t, len(incidents), 0)
}

func TestLocationSnapshotEndpoints(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/locations", []map[string]any{
		{"id": "site", "name": "Site"},
		{"id": "wing-a", "parentId": "site", "name": "Wing A"},
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var created map[string]int
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	gt.Equal(t, created["stored"], 2)

	rec = doJSON(t, handler, http.MethodGet, "/api/locations", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var locations []*model.Location
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &locations))
	gt.Equal(t, len(locations), 2)
	gt.Equal(t, locations[0].ID, types.LocationID("site"))
}

func TestLocationSnapshotRejectsDuplicates(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/locations", []map[string]any{
		{"id": "site", "name": "Site"},
		{"id": "site", "name": "Duplicate"},
	})
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestRiskMapEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/locations", []map[string]any{
		{"id": "site", "name": "Site"},
		{"id": "wing-a", "parentId": "site", "name": "Wing A"},
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	rec = doJSON(t, handler, http.MethodPost, "/api/incidents", []map[string]any{
		incidentBody("wing-a", types.SeverityCritical, time.Hour),
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	rec = doJSON(t, handler, http.MethodGet, "/api/risk", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var riskMap map[string]*model.LocationRiskData
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &riskMap))
	gt.Equal(t, len(riskMap), 2)

	// The incident rolls up from the wing to the site
	gt.Equal(t, riskMap["wing-a"].Direct.Total, 1)
	gt.Equal(t, riskMap["site"].Total.Total, 1)
	gt.Equal(t, riskMap["site"].HighestSeverity, types.SeverityCritical)
	gt.True(t, riskMap["site"].Safety.Score < 100)
}

func TestLocationRiskEndpoint(t *testing.T) {
	handler := newTestServer(t)

	incident := incidentBody("loc-a", types.SeverityHigh, time.Hour)
	incident["marker"] = map[string]any{"floorId": "floor-2", "x": 0.4, "y": 0.6}
	rec := doJSON(t, handler, http.MethodPost, "/api/incidents", []map[string]any{incident})
	gt.Equal(t, rec.Code, http.StatusCreated)

	rec = doJSON(t, handler, http.MethodGet, "/api/risk/loc-a", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Risk   *model.LocationRiskData `json:"risk"`
		Mapped []*model.Incident       `json:"mapped"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.NotNil(t, body.Risk)
	gt.Equal(t, body.Risk.Direct.Total, 1)
	gt.Equal(t, body.Risk.MappedCount, 1)
	gt.Equal(t, len(body.Mapped), 1)
	gt.NotNil(t, body.Mapped[0].Marker)
}

func TestLocationRiskNotFound(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/api/risk/missing", nil)
	gt.Equal(t, rec.Code, http.StatusNotFound)
}

func TestLocationRiskEmptyIDIsBadRequest(t *testing.T) {
	repo := repository.NewMemory()
	t.Cleanup(func() { _ = repo.Close() })

	// Call the handler without route context so the URL parameter is empty
	handler := controller.NewRiskHandler(usecase.NewRisk(repo))
	rec := httptest.NewRecorder()
	handler.HandleLocationRisk(rec, httptest.NewRequest(http.MethodGet, "/api/risk/", nil))
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}
