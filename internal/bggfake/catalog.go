// Package bggfake serves a small in-memory imitation of the BGG XML API for
// tests and local development.
package bggfake

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Game is one catalog item as the fake serves it. Zero numeric fields are
// omitted from the rendered document.
type Game struct {
	ID          int
	Name        string
	AltNames    []string
	Year        int
	MinPlayers  int
	MaxPlayers  int
	PlayingTime int
	Weight      float64
	Average     float64
	Bayes       float64
	Image       string
	Thumbnail   string
	Mechanics   []string
	Categories  []string
	Designers   []string
	Artists     []string
	Publishers  []string
}

// Owner is a user's collection: owned ids in export order plus ratings.
// Ids without a rating are reported as "N/A".
type Owner struct {
	Username string
	Owned    []int
	Ratings  map[int]float64
}

var (
	mechanicPool  = []string{"Dice Rolling", "Hand Management", "Worker Placement", "Deck Building", "Area Control", "Set Collection", "Tile Placement", "Cooperative Game", "Trading", "Drafting"}
	categoryPool  = []string{"Economic", "Fantasy", "Science Fiction", "Negotiation", "Card Game", "Wargame", "Abstract Strategy", "Party Game"}
	designerPool  = []string{"Uwe Rosenberg", "Reiner Knizia", "Klaus Teuber", "Vlaada Chvátil", "Elizabeth Hargrave", "Stefan Feld"}
	artistPool    = []string{"Michael Menzel", "Beth Sobel", "Vincent Dutrait", "Klemens Franz"}
	publisherPool = []string{"KOSMOS", "Stonemaier Games", "Z-Man Games", "Rio Grande Games", "CGE"}
	namePrefix    = []string{"Lost", "Great", "Hidden", "Iron", "Crimson", "Silent", "Golden", "Northern"}
	nameSuffix    = []string{"Harbor", "Empire", "Gardens", "Frontier", "Railways", "Kingdoms", "Expedition", "Market"}
)

const (
	baseGameID      = 1000
	weightScale     = 100
	ratingScale     = 100
	unratedOneInN   = 4
	missingOneInN   = 10
	maxTagsPerGroup = 3
)

// randInt returns a uniform int in [0, n) using crypto/rand.
func randInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(pool []string) string { return pool[randInt(len(pool))] }

func pickSome(pool []string) []string {
	n := randInt(maxTagsPerGroup + 1)
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		v := pick(pool)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// RandomCatalog builds n games and an owner of all of them. Roughly one game
// in ten has its year, player counts or playing time left out, and about a
// quarter of the collection is unrated.
func RandomCatalog(n int, username string) ([]Game, Owner) {
	games := make([]Game, n)
	owner := Owner{Username: username, Owned: make([]int, n), Ratings: make(map[int]float64)}

	for i := range games {
		id := baseGameID + i
		minP := 1 + randInt(4)
		g := Game{
			ID:          id,
			Name:        fmt.Sprintf("%s %s", pick(namePrefix), pick(nameSuffix)),
			Year:        1980 + randInt(45),
			MinPlayers:  minP,
			MaxPlayers:  minP + randInt(5),
			PlayingTime: 15 * (1 + randInt(12)),
			Weight:      float64(100+randInt(400)) / weightScale,
			Average:     float64(500+randInt(450)) / ratingScale,
			Bayes:       float64(550+randInt(300)) / ratingScale,
			Image:       fmt.Sprintf("https://images.example.test/%d.jpg", id),
			Thumbnail:   fmt.Sprintf("https://images.example.test/%d_t.jpg", id),
			Mechanics:   pickSome(mechanicPool),
			Categories:  pickSome(categoryPool),
			Designers:   pickSome(designerPool),
			Artists:     pickSome(artistPool),
			Publishers:  pickSome(publisherPool),
		}
		if randInt(missingOneInN) == 0 {
			g.Year, g.MinPlayers, g.MaxPlayers, g.PlayingTime = 0, 0, 0, 0
		}
		games[i] = g

		owner.Owned[i] = id
		if randInt(unratedOneInN) != 0 {
			owner.Ratings[id] = float64(1 + randInt(10))
		}
	}
	return games, owner
}
