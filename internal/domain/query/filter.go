// Package query evaluates filters and facet counts over cached records.
package query

import (
	"strings"

	"github.com/okian/boardshelf/internal/domain/model"
)

// Substitutes for absent record values.
const (
	absentLow       = 0
	absentYearHigh  = 9999
	absentCountHigh = 9999
	absentWeightMax = 9999.0
)

// Filter lists the optional constraints of a games query. Zero values are
// unset and impose no constraint.
type Filter struct {
	Mechanics  []string
	Categories []string
	Designers  []string
	Artists    []string
	Publishers []string

	YearMin    int
	YearMax    int
	Players    int
	PlayersMin int
	PlayersMax int
	TimeMax    int

	WeightMin float64
	WeightMax float64
	RatingMin float64

	Search string
}

// IsZero reports whether f has no active dimension.
func (f *Filter) IsZero() bool {
	return len(f.Mechanics) == 0 && len(f.Categories) == 0 && len(f.Designers) == 0 &&
		len(f.Artists) == 0 && len(f.Publishers) == 0 &&
		f.YearMin == 0 && f.YearMax == 0 && f.Players == 0 && f.PlayersMin == 0 &&
		f.PlayersMax == 0 && f.TimeMax == 0 && f.WeightMin == 0 && f.WeightMax == 0 &&
		f.RatingMin == 0 && f.Search == ""
}

// Matches reports whether r satisfies every active dimension of f.
func Matches(r *model.Record, f *Filter) bool {
	if !hasAllTags(r.Mechanics, f.Mechanics) ||
		!hasAllTags(r.Categories, f.Categories) ||
		!hasAllTags(r.Designers, f.Designers) ||
		!hasAllTags(r.Artists, f.Artists) ||
		!hasAllTags(r.Publishers, f.Publishers) {
		return false
	}

	if f.YearMin != 0 && intOr(r.Year, absentLow) < f.YearMin {
		return false
	}
	if f.YearMax != 0 && intOr(r.Year, absentYearHigh) > f.YearMax {
		return false
	}

	if f.Players != 0 {
		if lo := intOr(r.MinPlayers, 0); lo != 0 && f.Players < lo {
			return false
		}
		if hi := intOr(r.MaxPlayers, 0); hi != 0 && f.Players > hi {
			return false
		}
	}

	if f.PlayersMin != 0 && intOr(r.MaxPlayers, absentLow) < f.PlayersMin {
		return false
	}
	if f.PlayersMax != 0 && intOr(r.MinPlayers, absentCountHigh) > f.PlayersMax {
		return false
	}

	// An unknown playing time never fails the time bound.
	if f.TimeMax != 0 {
		if t := intOr(r.PlayingTime, 0); t != 0 && t > f.TimeMax {
			return false
		}
	}

	if f.WeightMin != 0 && floatOr(r.Weight, absentLow) < f.WeightMin {
		return false
	}
	if f.WeightMax != 0 && floatOr(r.Weight, absentWeightMax) > f.WeightMax {
		return false
	}

	if f.RatingMin != 0 && floatOr(r.AvgRating, absentLow) < f.RatingMin {
		return false
	}

	if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the records matching f, preserving input order. The result
// never aliases records.
func Apply(records []model.Record, f *Filter) []model.Record {
	out := make([]model.Record, 0, len(records))
	if f == nil || f.IsZero() {
		return append(out, records...)
	}
	for i := range records {
		if Matches(&records[i], f) {
			out = append(out, records[i])
		}
	}
	return out
}

// hasAllTags reports whether every wanted tag appears in have, ignoring case.
func hasAllTags(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[strings.ToLower(v)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[strings.ToLower(w)]; !ok {
			return false
		}
	}
	return true
}

// intOr returns *p, or def when p is nil or points at zero. BGG reports 0
// for unknown numeric fields, so zero is treated as absent.
func intOr(p *int, def int) int {
	if p == nil || *p == 0 {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil || *p == 0 {
		return def
	}
	return *p
}
