package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/boardshelf/internal/domain/query"
	"github.com/okian/boardshelf/pkg/errs"
)

// GamesHandler handles filtered list requests.
type GamesHandler struct {
	deps GamesDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GamesDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleGetGames handles GET /api/games. Every query parameter is optional.
func (h *GamesHandler) HandleGetGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_games"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errs.WrapKind(op, ErrBadRequest, err))
		return
	}

	records, err := h.deps.Games(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", errs.Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// parseFilter reads the games query parameters. List parameters are comma
// separated; blank entries are dropped.
func parseFilter(q url.Values) (*query.Filter, error) {
	f := &query.Filter{
		Mechanics:  splitList(q.Get("mechanics")),
		Categories: splitList(q.Get("categories")),
		Designers:  splitList(q.Get("designers")),
		Artists:    splitList(q.Get("artists")),
		Publishers: splitList(q.Get("publishers")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"year_min", &f.YearMin},
		{"year_max", &f.YearMax},
		{"players", &f.Players},
		{"players_min", &f.PlayersMin},
		{"players_max", &f.PlayersMax},
		{"time_max", &f.TimeMax},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", p.name, raw)
		}
		*p.dst = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"weight_min", &f.WeightMin},
		{"weight_max", &f.WeightMax},
		{"rating_min", &f.RatingMin},
	}
	for _, p := range floats {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s must be a number, got %q", p.name, raw)
		}
		*p.dst = v
	}
	return f, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
