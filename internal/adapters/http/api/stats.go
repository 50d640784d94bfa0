package api

import (
	"net/http"
	"time"
)

// StatsProvider reports service counters for the /stats route.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves a JSON view of the provider's counters.
type StatsHandler struct {
	provider StatsProvider
	now      func() time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, now: time.Now}
}

// HandleStats handles GET /stats. The reply carries the provider's counters
// plus the server time they were read at.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.provider.GetStats()
	out := make(map[string]interface{}, len(stats)+1)
	for k, v := range stats {
		out[k] = v
	}
	out["serverTime"] = h.now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, out)
}
