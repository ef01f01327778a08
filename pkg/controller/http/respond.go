package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/safemon-lab/pallas/pkg/utils/apperr"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already written, so log and move on
		ctxlog.From(r.Context()).Error("failed to encode response body",
			"error", err,
			"path", r.URL.Path,
		)
	}
}

// respondError logs the error and writes a JSON error body. Validation
// errors should pass http.StatusBadRequest as fallback; unexpected ones
// http.StatusInternalServerError. Not-found sentinels override either.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	apperr.Handle(r.Context(), err)
	status := apperr.HTTPStatus(err, fallback)
	respondJSON(w, r, status, map[string]string{
		"error": err.Error(),
	})
}
