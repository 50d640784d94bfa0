// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/internal/domain/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GamesDependencies
	FacetsDependencies
	RefreshDependencies
}

// GamesDependencies lists filtered records.
type GamesDependencies interface {
	Games(ctx context.Context, f *query.Filter) ([]model.Record, error)
}

// FacetsDependencies counts facet values over the cache.
type FacetsDependencies interface {
	Facets(ctx context.Context) (model.Facets, error)
}

// RefreshDependencies runs an ingestion.
type RefreshDependencies interface {
	Refresh(ctx context.Context, username string) (model.RefreshResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
	facetsHandler  *FacetsHandler
	refreshHandler *RefreshHandler
	pingHandler    *PingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		facetsHandler:  NewFacetsHandler(deps),
		refreshHandler: NewRefreshHandler(deps),
		pingHandler:    NewPingHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/games", MetricsMiddleware(s.gamesHandler.HandleGetGames, "games"))
	mux.HandleFunc("/api/facets", MetricsMiddleware(s.facetsHandler.HandleGetFacets, "facets"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
	mux.HandleFunc("/api/test", MetricsMiddleware(s.pingHandler.HandlePing, "test"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}
