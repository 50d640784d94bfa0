package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/boardshelf/internal/adapters/bgg"
	"github.com/okian/boardshelf/internal/adapters/repository"
	service "github.com/okian/boardshelf/internal/app"
	"github.com/okian/boardshelf/internal/bggfake"
	"github.com/okian/boardshelf/internal/domain/query"
	"github.com/okian/boardshelf/pkg/logger"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service talking to a fake BGG", t, func() {
		catan := bggfake.Game{
			ID: 13, Name: "Catan", AltNames: []string{"Die Siedler von Catan"}, Year: 1995,
			MinPlayers: 3, MaxPlayers: 4, PlayingTime: 120, Weight: 2.29, Average: 7.1, Bayes: 6.9,
			Mechanics: []string{"Dice Rolling", "Trading"}, Categories: []string{"Economic"},
			Designers: []string{"Klaus Teuber"},
		}
		azul := bggfake.Game{
			ID: 230802, Name: "Azul", Year: 2017, MinPlayers: 2, MaxPlayers: 4, PlayingTime: 45,
			Weight: 1.76, Average: 7.8, Bayes: 7.6, Mechanics: []string{"Tile Placement"},
		}
		mystery := bggfake.Game{ID: 99, Name: "Mystery Box"}
		owner := bggfake.Owner{
			Username: "alice",
			Owned:    []int{13, 230802, 99, 13},
			Ratings:  map[int]float64{13: 8},
		}

		fake := bggfake.New(
			bggfake.WithGames(catan, azul, mystery),
			bggfake.WithOwner(owner),
			bggfake.WithPendingPolls(2),
			bggfake.WithLogger(logger.Nop()),
		)
		upstream := httptest.NewServer(fake.Handler())
		defer upstream.Close()

		client := bgg.New(
			bgg.WithBaseURL(upstream.URL),
			bgg.WithCollectionRetryDelay(time.Millisecond),
			bgg.WithLogger(logger.Nop()),
		)
		store := repository.NewFileStore(filepath.Join(t.TempDir(), "cache.json"), repository.WithFileLogger(logger.Nop()))
		svc := service.New(client, client, store,
			service.WithUsername("alice"),
			service.WithBatchSize(2),
			service.WithBatchPacing(0),
			service.WithLogger(logger.Nop()),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("a refresh waits out the pending export and hydrates the collection", func() {
			res, err := svc.Refresh(ctx, "")
			So(err, ShouldBeNil)
			So(res.TotalInCollection, ShouldEqual, 4)
			So(res.TotalHydrated, ShouldEqual, 3)
			So(res.FailedBatches, ShouldEqual, 0)
			So(fake.CollectionCalls(), ShouldEqual, 3)
			So(fake.ThingCalls(), ShouldEqual, 2)

			games, err := svc.Games(ctx, &query.Filter{})
			So(err, ShouldBeNil)
			So(len(games), ShouldEqual, 3)
			So(games[0].Name, ShouldEqual, "Catan")
			So(*games[0].MyRating, ShouldEqual, 8.0)
			So(games[1].MyRating, ShouldBeNil)
			So(games[2].Year, ShouldBeNil)
			So(games[2].Mechanics, ShouldResemble, []string{})

			Convey("and the cache answers filtered queries", func() {
				light, err := svc.Games(ctx, &query.Filter{WeightMax: 2.0})
				So(err, ShouldBeNil)
				So(len(light), ShouldEqual, 1)
				So(light[0].Name, ShouldEqual, "Azul")

				quick, err := svc.Games(ctx, &query.Filter{TimeMax: 60})
				So(err, ShouldBeNil)
				So(len(quick), ShouldEqual, 2)

				facets, err := svc.Facets(ctx)
				So(err, ShouldBeNil)
				So(facets.Years[query.Unknown], ShouldEqual, 1)
				So(facets.TimeBuckets[query.TimeOver120], ShouldEqual, 0)
				So(facets.TimeBuckets[query.Time91To120], ShouldEqual, 1)
			})
		})

		Convey("an unknown user fails the run", func() {
			_, err := svc.Refresh(ctx, "nobody")
			So(errors.Is(err, service.ErrIngestion), ShouldBeTrue)
			So(errors.Is(err, bgg.ErrRemote), ShouldBeTrue)
		})
	})
}

func TestServiceIntegrationFailingBatches(t *testing.T) {
	Convey("Given a fake BGG whose first five games always fail", t, func() {
		games := make([]bggfake.Game, 0, 10)
		owned := make([]int, 0, 10)
		for id := 1; id <= 10; id++ {
			games = append(games, bggfake.Game{ID: id, Name: fmt.Sprintf("Game %d", id)})
			owned = append(owned, id)
		}
		fake := bggfake.New(
			bggfake.WithGames(games...),
			bggfake.WithOwner(bggfake.Owner{Username: "alice", Owned: owned}),
			bggfake.WithFailingIDs(1, 2, 3, 4, 5),
			bggfake.WithLogger(logger.Nop()),
		)
		upstream := httptest.NewServer(fake.Handler())
		defer upstream.Close()

		// Default breaker settings.
		client := bgg.New(
			bgg.WithBaseURL(upstream.URL),
			bgg.WithCollectionRetryDelay(time.Millisecond),
			bgg.WithLogger(logger.Nop()),
		)
		store := repository.NewFileStore(filepath.Join(t.TempDir(), "cache.json"), repository.WithFileLogger(logger.Nop()))
		svc := service.New(client, client, store,
			service.WithUsername("alice"),
			service.WithBatchSize(1),
			service.WithHydrateWorkers(1),
			service.WithBatchPacing(0),
			service.WithLogger(logger.Nop()),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("healthy batches after a run of failures are still hydrated", func() {
			res, err := svc.Refresh(ctx, "")
			So(err, ShouldBeNil)
			So(res.TotalInCollection, ShouldEqual, 10)
			So(res.FailedBatches, ShouldEqual, 5)
			So(res.TotalHydrated, ShouldEqual, 5)
			So(fake.ThingCalls(), ShouldEqual, 10)

			got, err := svc.Games(ctx, &query.Filter{})
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 5)
			So(got[0].ID, ShouldEqual, 6)
		})
	})
}
