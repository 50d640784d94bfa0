// Command bggfake serves a random collection over an imitation of the BGG
// XML API so the service can be run without network access.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/boardshelf/internal/bggfake"
	"github.com/okian/boardshelf/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	games := flag.Int("games", 50, "number of games in the collection")
	username := flag.String("username", "demo", "collection owner")
	pending := flag.Int("pending", 1, "collection requests answered with 202 before the export is ready")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("bggfake")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, owner := bggfake.RandomCatalog(*games, *username)
	fake := bggfake.New(
		bggfake.WithGames(catalog...),
		bggfake.WithOwner(owner),
		bggfake.WithPendingPolls(*pending),
		bggfake.WithLogger(log),
	)

	srv := &http.Server{Addr: *addr, Handler: fake.Handler(), ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		log.Info(ctx, "serving fake BGG API",
			logger.String("addr", *addr),
			logger.String("username", *username),
			logger.Int("games", len(catalog)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "fake BGG server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
