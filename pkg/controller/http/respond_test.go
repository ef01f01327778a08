package http

import (
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestRespondJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/risk", nil)

	// Functions are not JSON-encodable; the failure is logged, not fatal
	respondJSON(rec, req, 200, map[string]any{"bad": func() {}})
	gt.Equal(t, rec.Code, 200)
}
