package query

import (
	"strconv"

	"github.com/okian/boardshelf/internal/domain/model"
)

// Unknown labels records whose value for a dimension is absent.
const Unknown = "Unknown"

// Playing-time bands.
const (
	TimeUpTo30  = "≤30 min"
	Time31To60  = "31–60 min"
	Time61To90  = "61–90 min"
	Time91To120 = "91–120 min"
	TimeOver120 = "120+ min"
	timeBand30  = 30
	timeBand60  = 60
	timeBand90  = 90
	timeBand120 = 120
)

// Complexity-weight bands. The hyphen in the two-word labels is U+2011.
const (
	WeightLight       = "Light (≤1.75)"
	WeightMediumLight = "Medium‑Light (1.76–2.5)"
	WeightMedium      = "Medium (2.51–3.25)"
	WeightMediumHeavy = "Medium‑Heavy (3.26–4.0)"
	WeightHeavy       = "Heavy (>4.0)"
)

// Aggregate counts every facet dimension over records. Counts depend only
// on the multiset of records, not on their order.
func Aggregate(records []model.Record) model.Facets {
	f := model.Facets{
		Mechanics:     map[string]int{},
		Categories:    map[string]int{},
		Designers:     map[string]int{},
		Artists:       map[string]int{},
		Publishers:    map[string]int{},
		Years:         map[string]int{},
		PlayerCounts:  map[string]int{},
		TimeBuckets:   map[string]int{},
		WeightBuckets: map[string]int{},
	}

	for i := range records {
		r := &records[i]
		countTags(f.Mechanics, r.Mechanics)
		countTags(f.Categories, r.Categories)
		countTags(f.Designers, r.Designers)
		countTags(f.Artists, r.Artists)
		countTags(f.Publishers, r.Publishers)

		f.Years[YearKey(r.Year)]++
		f.PlayerCounts[PlayerCountKey(r.MinPlayers, r.MaxPlayers)]++
		f.TimeBuckets[TimeBucket(r.PlayingTime)]++
		f.WeightBuckets[WeightBucket(r.Weight)]++
	}
	return f
}

func countTags(dst map[string]int, tags []string) {
	for _, t := range tags {
		dst[t]++
	}
}

// YearKey returns the decimal year or Unknown.
func YearKey(year *int) string {
	if y := intOr(year, 0); y != 0 {
		return strconv.Itoa(y)
	}
	return Unknown
}

// PlayerCountKey renders "{min}–{max}"; a one-sided count repeats the
// present side, and no count at all is Unknown.
func PlayerCountKey(minPlayers, maxPlayers *int) string {
	lo, hi := intOr(minPlayers, 0), intOr(maxPlayers, 0)
	if lo == 0 && hi == 0 {
		return Unknown
	}
	if lo == 0 {
		lo = hi
	}
	if hi == 0 {
		hi = lo
	}
	return strconv.Itoa(lo) + "–" + strconv.Itoa(hi)
}

// TimeBucket maps a playing time to its band; ties fall in the lower band.
func TimeBucket(minutes *int) string {
	m := intOr(minutes, 0)
	switch {
	case m == 0:
		return Unknown
	case m <= timeBand30:
		return TimeUpTo30
	case m <= timeBand60:
		return Time31To60
	case m <= timeBand90:
		return Time61To90
	case m <= timeBand120:
		return Time91To120
	default:
		return TimeOver120
	}
}

// WeightBucket maps a complexity weight to its band; ties fall in the lower band.
func WeightBucket(weight *float64) string {
	if weight == nil {
		return Unknown
	}
	w := *weight
	switch {
	case w <= 1.75:
		return WeightLight
	case w <= 2.5:
		return WeightMediumLight
	case w <= 3.25:
		return WeightMedium
	case w <= 4.0:
		return WeightMediumHeavy
	default:
		return WeightHeavy
	}
}
