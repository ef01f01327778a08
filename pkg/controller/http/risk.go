package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/usecase"
)

// RiskHandler serves the derived risk map
type RiskHandler struct {
	riskUC usecase.RiskUseCase
}

// NewRiskHandler creates a new RiskHandler
func NewRiskHandler(riskUC usecase.RiskUseCase) *RiskHandler {
	return &RiskHandler{
		riskUC: riskUC,
	}
}

// HandleRiskMap handles GET /api/risk: the full rolled-up risk map
func (h *RiskHandler) HandleRiskMap(w http.ResponseWriter, r *http.Request) {
	rolled, err := h.riskUC.RolledUp(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	// Stable JSON shape: map keyed by location ID
	body := make(map[string]*model.LocationRiskData, len(rolled))
	for id, data := range rolled {
		body[id.String()] = data
	}
	respondJSON(w, r, http.StatusOK, body)
}

// locationRiskResponse is the response body of GET /api/risk/{locationID}
type locationRiskResponse struct {
	Risk   *model.LocationRiskData `json:"risk"`
	Mapped []*model.Incident       `json:"mapped"` // Floor-plan incident subset
}

// HandleLocationRisk handles GET /api/risk/{locationID}
func (h *RiskHandler) HandleLocationRisk(w http.ResponseWriter, r *http.Request) {
	locationID := types.LocationID(chi.URLParam(r, "locationID"))
	if locationID == "" {
		respondError(w, r, goerr.New("location ID is required"), http.StatusBadRequest)
		return
	}

	data, mapped, err := h.riskUC.LocationRisk(r.Context(), locationID)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if mapped == nil {
		mapped = []*model.Incident{}
	}
	respondJSON(w, r, http.StatusOK, locationRiskResponse{
		Risk:   data,
		Mapped: mapped,
	})
}
