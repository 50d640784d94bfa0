package query_test

import (
	"testing"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given a mixed record set", t, func() {
		a := catan()
		b := bare()
		c := model.Record{
			ID:          2,
			Name:        "Solo Thing",
			Year:        intp(2020),
			MaxPlayers:  intp(1),
			PlayingTime: intp(30),
			Weight:      floatp(4.5),
			Mechanics:   []string{"Dice Rolling", "Dice Rolling"},
		}
		c.Normalize()
		records := []model.Record{a, b, c}

		facets := query.Aggregate(records)

		Convey("Tag counts include duplicates within one record", func() {
			So(facets.Mechanics["Dice Rolling"], ShouldEqual, 3)
			So(facets.Mechanics["Trading"], ShouldEqual, 1)
			So(facets.Designers["Klaus Teuber"], ShouldEqual, 1)
		})

		Convey("Each tag facet sums to the number of record tag pairs", func() {
			total := 0
			for _, n := range facets.Mechanics {
				total += n
			}
			want := 0
			for _, r := range records {
				want += len(r.Mechanics)
			}
			So(total, ShouldEqual, want)
		})

		Convey("Years key by decimal string or Unknown", func() {
			So(facets.Years, ShouldResemble, map[string]int{"1995": 1, "2020": 1, "Unknown": 1})
		})

		Convey("Player counts use an en dash and repeat a one-sided bound", func() {
			So(facets.PlayerCounts, ShouldResemble, map[string]int{"3–4": 1, "1–1": 1, "Unknown": 1})
		})

		Convey("Time and weight buckets", func() {
			So(facets.TimeBuckets, ShouldResemble, map[string]int{
				query.Time91To120: 1, query.TimeUpTo30: 1, query.Unknown: 1,
			})
			So(facets.WeightBuckets, ShouldResemble, map[string]int{
				query.WeightMediumLight: 1, query.WeightHeavy: 1, query.Unknown: 1,
			})
		})

		Convey("Counts do not depend on record order", func() {
			reversed := []model.Record{c, b, a}
			So(query.Aggregate(reversed), ShouldResemble, facets)
		})
	})

	Convey("Given no records", t, func() {
		facets := query.Aggregate(nil)
		So(facets.Mechanics, ShouldNotBeNil)
		So(facets.Years, ShouldBeEmpty)
	})

	Convey("Given a record whose stored tags include an empty string", t, func() {
		r := model.Record{ID: 1, Name: "Old Cache Entry", Mechanics: []string{"", "Trading"}}
		r.Normalize()
		facets := query.Aggregate([]model.Record{r})

		Convey("Every stored tag is counted so the facet total matches", func() {
			So(facets.Mechanics["Trading"], ShouldEqual, 1)
			So(facets.Mechanics[""], ShouldEqual, 1)
		})
	})
}

func TestBuckets(t *testing.T) {
	Convey("Weight band boundaries resolve to the lower band", t, func() {
		So(query.WeightBucket(floatp(1.75)), ShouldEqual, "Light (≤1.75)")
		So(query.WeightBucket(floatp(1.76)), ShouldEqual, "Medium‑Light (1.76–2.5)")
		So(query.WeightBucket(floatp(2.5)), ShouldEqual, query.WeightMediumLight)
		So(query.WeightBucket(floatp(3.25)), ShouldEqual, query.WeightMedium)
		So(query.WeightBucket(floatp(4.0)), ShouldEqual, query.WeightMediumHeavy)
		So(query.WeightBucket(floatp(4.01)), ShouldEqual, query.WeightHeavy)
		So(query.WeightBucket(nil), ShouldEqual, query.Unknown)
	})

	Convey("Time band boundaries resolve to the lower band", t, func() {
		So(query.TimeBucket(intp(30)), ShouldEqual, query.TimeUpTo30)
		So(query.TimeBucket(intp(31)), ShouldEqual, query.Time31To60)
		So(query.TimeBucket(intp(60)), ShouldEqual, query.Time31To60)
		So(query.TimeBucket(intp(90)), ShouldEqual, query.Time61To90)
		So(query.TimeBucket(intp(120)), ShouldEqual, query.Time91To120)
		So(query.TimeBucket(intp(121)), ShouldEqual, query.TimeOver120)
		So(query.TimeBucket(nil), ShouldEqual, query.Unknown)
	})

	Convey("Player count keys", t, func() {
		So(query.PlayerCountKey(intp(2), intp(5)), ShouldEqual, "2–5")
		So(query.PlayerCountKey(intp(2), nil), ShouldEqual, "2–2")
		So(query.PlayerCountKey(nil, nil), ShouldEqual, "Unknown")
	})

	Convey("Year keys", t, func() {
		So(query.YearKey(intp(1995)), ShouldEqual, "1995")
		So(query.YearKey(nil), ShouldEqual, "Unknown")
	})
}
