package api

import "net/http"

// PingHandler answers the API liveness probe.
type PingHandler struct{}

// NewPingHandler creates a new ping handler.
func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

// HandlePing handles GET /api/test.
func (h *PingHandler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "API is working"})
}
