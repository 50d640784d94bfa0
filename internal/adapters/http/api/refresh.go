package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/boardshelf/internal/app"
	"github.com/okian/boardshelf/pkg/errs"
)

// RefreshHandler triggers ingestion runs.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /api/refresh?username=U. The request
// blocks until the run finishes. A client that disconnects does not abort
// the run; the service's own refresh timeout still bounds it.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	result, err := h.deps.Refresh(context.WithoutCancel(r.Context()), r.URL.Query().Get("username"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, service.ErrNoUsername):
		writeError(w, http.StatusBadRequest, "config_error",
			errs.Wrap(op, errors.New("no username given; pass ?username= or set BGG_USERNAME")))
	default:
		writeError(w, http.StatusInternalServerError, "ingestion_failed", errs.Wrap(op, err))
	}
}
