// Package model contains domain models passed between layers.
package model

import "time"

// Record is one catalog item enriched with bulk-fetched metadata.
// Optional scalars are nil when the source omitted them or they did not parse.
type Record struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Year         *int     `json:"year"`
	ImageURL     *string  `json:"imageUrl"`
	ThumbnailURL *string  `json:"thumbnailUrl"`
	MinPlayers   *int     `json:"minPlayers"`
	MaxPlayers   *int     `json:"maxPlayers"`
	PlayingTime  *int     `json:"playingTimeMinutes"`
	Weight       *float64 `json:"weight"`
	AvgRating    *float64 `json:"avgRating"`
	BayesRating  *float64 `json:"bayesRating"`
	MyRating     *float64 `json:"myRating"`
	Mechanics    []string `json:"mechanics"`
	Categories   []string `json:"categories"`
	Designers    []string `json:"designers"`
	Artists      []string `json:"artists"`
	Publishers   []string `json:"publishers"`
}

// Normalize replaces nil tag sequences with empty ones so a record
// serializes with [] rather than null.
func (r *Record) Normalize() {
	for _, s := range []*[]string{&r.Mechanics, &r.Categories, &r.Designers, &r.Artists, &r.Publishers} {
		if *s == nil {
			*s = []string{}
		}
	}
}

// Ratings maps a collection item id to the user's own rating.
// A present key with a nil value means the item is owned but unrated.
type Ratings map[int]*float64

// Lookup returns the rating for id, nil when absent or unrated.
func (r Ratings) Lookup(id int) *float64 {
	if r == nil {
		return nil
	}
	return r[id]
}

// Facets holds per-dimension occurrence counts over a record set.
type Facets struct {
	Mechanics     map[string]int `json:"mechanics"`
	Categories    map[string]int `json:"categories"`
	Designers     map[string]int `json:"designers"`
	Artists       map[string]int `json:"artists"`
	Publishers    map[string]int `json:"publishers"`
	Years         map[string]int `json:"years"`
	PlayerCounts  map[string]int `json:"playerCounts"`
	TimeBuckets   map[string]int `json:"timeBuckets"`
	WeightBuckets map[string]int `json:"weightBuckets"`
}

// RefreshResult summarizes one ingestion run.
type RefreshResult struct {
	RunID             string        `json:"runId"`
	Username          string        `json:"username"`
	TotalInCollection int           `json:"totalInCollection"`
	TotalHydrated     int           `json:"totalHydrated"`
	FailedBatches     int           `json:"failedBatches"`
	Cached            bool          `json:"cached"`
	Duration          time.Duration `json:"durationNs"`
}
