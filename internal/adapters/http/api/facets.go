package api

import (
	"net/http"

	"github.com/okian/boardshelf/pkg/errs"
)

// FacetsHandler handles facet count requests.
type FacetsHandler struct {
	deps FacetsDependencies
}

// NewFacetsHandler creates a new facets handler.
func NewFacetsHandler(deps FacetsDependencies) *FacetsHandler {
	return &FacetsHandler{deps: deps}
}

// HandleGetFacets handles GET /api/facets.
func (h *FacetsHandler) HandleGetFacets(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_facets"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	facets, err := h.deps.Facets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", errs.Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, facets)
}
