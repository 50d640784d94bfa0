package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/boardshelf/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// Runs only against a live server: REDIS_URL=redis://localhost:6379/0.
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	Convey("Given a redis store under a unique key", t, func() {
		ctx := context.Background()
		key := "boardshelf:test:" + uuid.NewString()
		store, err := NewRedisStore(redisURL, WithKey(key), WithRedisLogger(logger.Nop()))
		So(err, ShouldBeNil)
		defer func() {
			_ = store.client.Del(ctx, key).Err()
			_ = store.Close()
		}()

		Convey("A missing key loads as empty", func() {
			records, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})

		Convey("Saved records round-trip", func() {
			So(store.Save(ctx, sampleRecords()), ShouldBeNil)
			loaded, err := store.Load(ctx)
			So(err, ShouldBeNil)

			want := sampleRecords()
			want[1].Normalize()
			So(loaded, ShouldResemble, want)
		})
	})
}

func TestNewRedisStoreBadURL(t *testing.T) {
	Convey("An unparseable URL fails with ErrLoad", t, func() {
		_, err := NewRedisStore("not-a-url://", WithRedisLogger(logger.Nop()))
		So(errors.Is(err, ErrLoad), ShouldBeTrue)
	})
}
