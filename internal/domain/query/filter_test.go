package query_test

import (
	"testing"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func catan() model.Record {
	r := model.Record{
		ID:          13,
		Name:        "Catan",
		Year:        intp(1995),
		MinPlayers:  intp(3),
		MaxPlayers:  intp(4),
		PlayingTime: intp(120),
		Weight:      floatp(2.29),
		AvgRating:   floatp(7.1),
		Mechanics:   []string{"Dice Rolling", "Trading"},
		Categories:  []string{"Negotiation"},
		Designers:   []string{"Klaus Teuber"},
	}
	r.Normalize()
	return r
}

func bare() model.Record {
	r := model.Record{ID: 1, Name: "Mystery Box"}
	r.Normalize()
	return r
}

func TestMatches(t *testing.T) {
	Convey("Given a fully populated record and a bare record", t, func() {
		full, empty := catan(), bare()

		Convey("An empty filter passes every record", func() {
			f := query.Filter{}
			So(f.IsZero(), ShouldBeTrue)
			So(query.Matches(&full, &f), ShouldBeTrue)
			So(query.Matches(&empty, &f), ShouldBeTrue)
		})

		Convey("Tag requirements are ANDed and case-insensitive", func() {
			So(query.Matches(&full, &query.Filter{Mechanics: []string{"dice rolling"}}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{Mechanics: []string{"DICE ROLLING", "trading"}}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{Mechanics: []string{"Dice Rolling", "Auction"}}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{Designers: []string{"klaus teuber"}}), ShouldBeTrue)
			So(query.Matches(&empty, &query.Filter{Categories: []string{"Negotiation"}}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{Artists: []string{"Anyone"}}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{Publishers: []string{"KOSMOS"}}), ShouldBeFalse)
		})

		Convey("Year bounds are inclusive", func() {
			So(query.Matches(&full, &query.Filter{YearMin: 1995, YearMax: 1995}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{YearMin: 1996}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{YearMax: 1994}), ShouldBeFalse)
		})

		Convey("An absent year fails a minimum but passes a maximum", func() {
			So(query.Matches(&empty, &query.Filter{YearMin: 2000}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{YearMax: 2000}), ShouldBeTrue)
		})

		Convey("Exact player count must fall inside the record range", func() {
			r := catan()
			r.MinPlayers, r.MaxPlayers = intp(2), intp(4)
			So(query.Matches(&r, &query.Filter{Players: 5}), ShouldBeFalse)
			So(query.Matches(&r, &query.Filter{Players: 1}), ShouldBeFalse)
			So(query.Matches(&r, &query.Filter{Players: 2}), ShouldBeTrue)
			So(query.Matches(&r, &query.Filter{Players: 4}), ShouldBeTrue)
		})

		Convey("A missing player bound is not enforced for an exact count", func() {
			r := bare()
			r.MinPlayers = intp(2)
			So(query.Matches(&r, &query.Filter{Players: 12}), ShouldBeTrue)
			So(query.Matches(&r, &query.Filter{Players: 1}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{Players: 3}), ShouldBeTrue)
		})

		Convey("A player range must overlap the record range", func() {
			So(query.Matches(&full, &query.Filter{PlayersMin: 4, PlayersMax: 6}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{PlayersMin: 5}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{PlayersMax: 2}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{PlayersMin: 1}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{PlayersMax: 8}), ShouldBeFalse)
		})

		Convey("Max playing time never excludes an absent time", func() {
			So(query.Matches(&full, &query.Filter{TimeMax: 120}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{TimeMax: 90}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{TimeMax: 10}), ShouldBeTrue)
		})

		Convey("Weight bounds treat absence as 0 for min and unbounded for max", func() {
			So(query.Matches(&full, &query.Filter{WeightMin: 2, WeightMax: 2.5}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{WeightMin: 2.3}), ShouldBeFalse)
			So(query.Matches(&full, &query.Filter{WeightMax: 2.0}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{WeightMin: 1}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{WeightMax: 5}), ShouldBeFalse)
		})

		Convey("Minimum rating treats absence as 0", func() {
			So(query.Matches(&full, &query.Filter{RatingMin: 7}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{RatingMin: 7.2}), ShouldBeFalse)
			So(query.Matches(&empty, &query.Filter{RatingMin: 0.5}), ShouldBeFalse)
		})

		Convey("Search is a case-insensitive substring of the name only", func() {
			So(query.Matches(&full, &query.Filter{Search: "ATA"}), ShouldBeTrue)
			So(query.Matches(&full, &query.Filter{Search: "teuber"}), ShouldBeFalse)
		})

		Convey("All active dimensions are ANDed", func() {
			f := query.Filter{Mechanics: []string{"trading"}, YearMin: 1990, Players: 3, Search: "cat"}
			So(query.Matches(&full, &f), ShouldBeTrue)
			f.TimeMax = 60
			So(query.Matches(&full, &f), ShouldBeFalse)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a record set", t, func() {
		records := []model.Record{catan(), bare(), catan()}
		records[2].ID = 14
		records[2].Name = "Catan: Seafarers"

		Convey("When filtering by search", func() {
			got := query.Apply(records, &query.Filter{Search: "catan"})

			Convey("Then matches keep their input order", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, 13)
				So(got[1].ID, ShouldEqual, 14)
			})
		})

		Convey("When nothing matches", func() {
			got := query.Apply(records, &query.Filter{YearMin: 3000})
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When the filter is empty", func() {
			got := query.Apply(records, &query.Filter{})

			Convey("Then every record comes back in a separate slice", func() {
				So(len(got), ShouldEqual, 3)
				So(got[1].ID, ShouldEqual, records[1].ID)
				got[0].Name = "changed"
				So(records[0].Name, ShouldEqual, "Catan")
			})

			Convey("Then a nil filter behaves the same", func() {
				So(len(query.Apply(records, nil)), ShouldEqual, 3)
			})
		})
	})

	Convey("Given no records and an empty filter", t, func() {
		got := query.Apply(nil, &query.Filter{})
		So(got, ShouldNotBeNil)
		So(got, ShouldBeEmpty)
	})
}
