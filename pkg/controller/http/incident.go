package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/usecase"
)

// IncidentHandler handles incident ingestion and listing
type IncidentHandler struct {
	ingestUC usecase.IngestUseCase
	riskUC   usecase.RiskUseCase
}

// NewIncidentHandler creates a new IncidentHandler
func NewIncidentHandler(ingestUC usecase.IngestUseCase, riskUC usecase.RiskUseCase) *IncidentHandler {
	return &IncidentHandler{
		ingestUC: ingestUC,
		riskUC:   riskUC,
	}
}

// HandleIngest handles POST /api/incidents: a batch of incident records
func (h *IncidentHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var incidents []*model.Incident
	if err := json.NewDecoder(r.Body).Decode(&incidents); err != nil {
		respondError(w, r, goerr.Wrap(err, "failed to decode incident batch"), http.StatusBadRequest)
		return
	}

	// Fill in generated IDs for records the collaborator did not identify
	for _, incident := range incidents {
		if incident != nil && incident.ID == "" {
			incident.ID = types.NewIncidentID()
		}
	}

	count, err := h.ingestUC.IngestIncidents(r.Context(), incidents)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]int{
		"ingested": count,
	})
}

// HandleList handles GET /api/incidents?location={id}
func (h *IncidentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.riskUC.ComputeRisk(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	locationID := types.LocationID(r.URL.Query().Get("location"))
	if locationID != "" {
		incidents := result.ByLocation[locationID]
		if incidents == nil {
			incidents = []*model.Incident{}
		}
		respondJSON(w, r, http.StatusOK, incidents)
		return
	}

	var incidents []*model.Incident
	for _, group := range result.ByLocation {
		incidents = append(incidents, group...)
	}
	if incidents == nil {
		incidents = []*model.Incident{}
	}
	respondJSON(w, r, http.StatusOK, incidents)
}
