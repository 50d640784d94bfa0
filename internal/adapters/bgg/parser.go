package bgg

import (
	"context"
	"strconv"
	"strings"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/errs"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

// Link type attribute values collected into tag sequences.
const (
	LinkMechanic  = "boardgamemechanic"
	LinkCategory  = "boardgamecategory"
	LinkDesigner  = "boardgamedesigner"
	LinkArtist    = "boardgameartist"
	LinkPublisher = "boardgamepublisher"
)

// ParseThings converts one /thing response into records. Field-level
// problems degrade the field to nil; only a document that is not XML at all
// (or an <errors> reply) fails. Items without a numeric id are skipped.
func ParseThings(doc []byte, ratings model.Ratings) ([]model.Record, error) {
	const op = "bgg.parse_things"

	root, err := parseDocument(doc)
	if err != nil {
		return nil, errs.WrapKind(op, ErrParse, err)
	}
	if err := remoteError(root); err != nil {
		return nil, errs.WrapKind(op, ErrRemote, err)
	}

	items := root.children("item")
	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		rec, ok := parseItem(item, ratings)
		if !ok {
			rawID, _ := item.attr("id")
			logger.Get().Named("bgg-parser").Warn(context.Background(), "skipping item without numeric id",
				logger.String("id", rawID))
			metrics.RecordErrorByComponent("parser", "invalid_item_id")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseItem(item *node, ratings model.Ratings) (model.Record, bool) {
	rawID, _ := item.attr("id")
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return model.Record{}, false
	}

	rec := model.Record{
		ID:           id,
		Name:         primaryName(item, id),
		Year:         extractInt(item, "yearpublished", "value"),
		ImageURL:     extractText(item, "image"),
		ThumbnailURL: extractText(item, "thumbnail"),
		MinPlayers:   extractInt(item, "minplayers", "value"),
		MaxPlayers:   extractInt(item, "maxplayers", "value"),
		PlayingTime:  extractInt(item, "playingtime", "value"),
		MyRating:     ratings.Lookup(id),
		Mechanics:    []string{},
		Categories:   []string{},
		Designers:    []string{},
		Artists:      []string{},
		Publishers:   []string{},
	}

	if stats := item.find("statistics/ratings"); stats != nil {
		rec.AvgRating = extractFloat(stats, "average", "value")
		rec.BayesRating = extractFloat(stats, "bayesaverage", "value")
		rec.Weight = extractFloat(stats, "averageweight", "value")
	}

	for _, link := range item.children("link") {
		value, ok := link.attr("value")
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		kind, _ := link.attr("type")
		switch kind {
		case LinkMechanic:
			rec.Mechanics = append(rec.Mechanics, value)
		case LinkCategory:
			rec.Categories = append(rec.Categories, value)
		case LinkDesigner:
			rec.Designers = append(rec.Designers, value)
		case LinkArtist:
			rec.Artists = append(rec.Artists, value)
		case LinkPublisher:
			rec.Publishers = append(rec.Publishers, value)
		}
	}
	return rec, true
}

// primaryName picks the name tagged primary, then the first name, then a
// placeholder built from the id.
func primaryName(item *node, id int) string {
	names := item.children("name")
	var chosen *node
	for _, n := range names {
		if t, _ := n.attr("type"); t == "primary" {
			chosen = n
			break
		}
	}
	if chosen == nil && len(names) > 0 {
		chosen = names[0]
	}
	if chosen != nil {
		if v, ok := chosen.attr("value"); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "Game " + strconv.Itoa(id)
}

// ParseCollection reads a /collection reply into ordered ids and the user's
// ratings. Items may sit directly under the root or one level deeper.
func ParseCollection(doc []byte) ([]int, model.Ratings, error) {
	const op = "bgg.parse_collection"

	root, err := parseDocument(doc)
	if err != nil {
		return nil, nil, errs.WrapKind(op, ErrParse, err)
	}
	if err := remoteError(root); err != nil {
		return nil, nil, errs.WrapKind(op, ErrRemote, err)
	}

	items := root.descendants("item")
	ids := make([]int, 0, len(items))
	ratings := make(model.Ratings, len(items))
	for _, item := range items {
		rawID, _ := item.attr("objectid")
		id, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil {
			return nil, nil, errs.WrapKind(op, ErrParse, err)
		}
		ids = append(ids, id)
		ratings[id] = extract(item, "stats/rating", "value", asRating)
	}
	return ids, ratings, nil
}

// asRating parses a personal rating; BGG sends "N/A" when unrated.
func asRating(s string) (float64, error) {
	if strings.EqualFold(s, "N/A") {
		return 0, strconv.ErrSyntax
	}
	return asFloat(s)
}

type remoteErr string

func (e remoteErr) Error() string { return string(e) }

// remoteError turns an <errors><error><message>..</message></error></errors>
// (or a bare <error>) reply into an error.
func remoteError(root *node) error {
	switch root.name() {
	case "errors", "error":
	default:
		return nil
	}
	var msgs []string
	for _, m := range root.descendants("message") {
		if t := strings.TrimSpace(m.Text); t != "" {
			msgs = append(msgs, t)
		}
	}
	if len(msgs) == 0 {
		return remoteErr("unspecified error reply")
	}
	return remoteErr(strings.Join(msgs, "; "))
}
