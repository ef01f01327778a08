package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/safemon-lab/pallas/pkg/domain/model"
)

// Handle logs an application error with the context logger
func Handle(ctx context.Context, err error) {
	ctxlog.From(ctx).Error("application error", "error", err)
}

// HTTPStatus maps a domain error to an HTTP status code.
// Not-found sentinels map to 404; everything else is the caller's call
// between 400 and 500.
func HTTPStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, model.ErrIncidentNotFound),
		errors.Is(err, model.ErrLocationNotFound):
		return http.StatusNotFound
	default:
		return fallback
	}
}
