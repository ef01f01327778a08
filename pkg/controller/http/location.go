package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/usecase"
)

// LocationHandler handles location snapshot upload and listing
type LocationHandler struct {
	ingestUC usecase.IngestUseCase
	repo     interfaces.Repository
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(ingestUC usecase.IngestUseCase, repo interfaces.Repository) *LocationHandler {
	return &LocationHandler{
		ingestUC: ingestUC,
		repo:     repo,
	}
}

// HandlePutSnapshot handles POST /api/locations: a flat location list
// forming the tree snapshot
func (h *LocationHandler) HandlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	var locations []*model.Location
	if err := json.NewDecoder(r.Body).Decode(&locations); err != nil {
		respondError(w, r, goerr.Wrap(err, "failed to decode location snapshot"), http.StatusBadRequest)
		return
	}

	count, err := h.ingestUC.PutLocations(r.Context(), locations)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]int{
		"stored": count,
	})
}

// HandleList handles GET /api/locations
func (h *LocationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	locations, err := h.repo.ListLocations(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if locations == nil {
		locations = []*model.Location{}
	}
	respondJSON(w, r, http.StatusOK, locations)
}
