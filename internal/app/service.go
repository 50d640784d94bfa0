// Package service wires collection resolution, hydration, the cache and
// the query engine into the operations the HTTP API exposes.
package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/boardshelf/internal/adapters/repository"
	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/internal/domain/query"
	"github.com/okian/boardshelf/pkg/errs"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

const defaultRefreshTimeout = 10 * time.Minute

// CollectionResolver lists the ids a user owns along with their ratings.
type CollectionResolver interface {
	ResolveCollection(ctx context.Context, username string) ([]int, model.Ratings, error)
}

// Service implements the API dependencies for the collection browser.
type Service struct {
	resolver CollectionResolver
	hydrator *Hydrator
	store    repository.Store
	snapshot *repository.Snapshot

	username       string
	refreshTimeout time.Duration

	// refreshMu serializes ingestion runs.
	refreshMu   sync.Mutex
	refreshing  atomic.Bool
	lastRefresh atomic.Pointer[refreshRecord]

	logger logger.Logger
}

type refreshRecord struct {
	result model.RefreshResult
	at     time.Time
}

// New constructs a Service. The cache snapshot is loaded from store on the
// first read.
func New(resolver CollectionResolver, fetcher ThingFetcher, store repository.Store, opts ...Option) *Service {
	s := &Service{
		resolver:       resolver,
		hydrator:       NewHydrator(fetcher),
		store:          store,
		snapshot:       repository.NewSnapshot(store),
		refreshTimeout: defaultRefreshTimeout,
		logger:         logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh resolves the collection of username (or the configured user),
// hydrates it, persists the records and swaps them in as the current
// snapshot. On failure the previous snapshot stays in place. Concurrent
// calls run one after another.
func (s *Service) Refresh(ctx context.Context, username string) (model.RefreshResult, error) {
	const op = "service.refresh"

	user := strings.TrimSpace(username)
	if user == "" {
		user = strings.TrimSpace(s.username)
	}
	if user == "" {
		return model.RefreshResult{}, errs.NewKind(op, ErrNoUsername)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.refreshing.Store(true)
	defer s.refreshing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.refreshTimeout)
	defer cancel()

	runID := uuid.NewString()
	log := s.logger
	start := time.Now()
	log.Info(ctx, "refresh started", logger.String("run_id", runID), logger.String("username", user))

	fail := func(stage string, err error) (model.RefreshResult, error) {
		metrics.RecordIngestionRun("failed", time.Since(start).Seconds())
		metrics.RecordErrorByComponent("service", stage)
		log.Error(ctx, "refresh failed",
			logger.String("run_id", runID),
			logger.String("stage", stage),
			logger.Error(err))
		return model.RefreshResult{}, errs.WrapKind(op, ErrIngestion, err)
	}

	ids, ratings, err := s.resolver.ResolveCollection(ctx, user)
	if err != nil {
		return fail("resolve", err)
	}
	log.Info(ctx, "collection size", logger.String("run_id", runID), logger.Int("ids", len(ids)))

	hydrated := s.hydrator.Hydrate(ctx, ids, ratings)
	if err := ctx.Err(); err != nil {
		return fail("hydrate", err)
	}
	if len(hydrated.Records) > 0 {
		log.Info(ctx, "first hydrated record",
			logger.String("run_id", runID),
			logger.Int("id", hydrated.Records[0].ID),
			logger.String("name", hydrated.Records[0].Name))
	}

	if err := s.store.Save(ctx, hydrated.Records); err != nil {
		return fail("save", err)
	}
	s.snapshot.Replace(hydrated.Records)

	result := model.RefreshResult{
		RunID:             runID,
		Username:          user,
		TotalInCollection: len(ids),
		TotalHydrated:     len(hydrated.Records),
		FailedBatches:     hydrated.Failed,
		Cached:            true,
		Duration:          time.Since(start),
	}
	s.lastRefresh.Store(&refreshRecord{result: result, at: time.Now()})

	outcome := "success"
	if hydrated.Failed > 0 {
		outcome = "partial"
	}
	metrics.RecordIngestionRun(outcome, result.Duration.Seconds())
	log.Info(ctx, "refresh completed",
		logger.String("run_id", runID),
		logger.String("username", user),
		logger.Int("total_in_collection", result.TotalInCollection),
		logger.Int("total_hydrated", result.TotalHydrated),
		logger.Int("batches", hydrated.Batches),
		logger.Int("failed_batches", hydrated.Failed),
		logger.Duration("duration", result.Duration))
	return result, nil
}

// Games returns the cached records matching f, in cache order.
func (s *Service) Games(ctx context.Context, f *query.Filter) ([]model.Record, error) {
	const op = "service.games"

	records, err := s.snapshot.Records(ctx)
	if err != nil {
		return nil, errs.WrapKind(op, ErrQuery, err)
	}
	start := time.Now()
	out := query.Apply(records, f)
	metrics.RecordQueryLatency("games", float64(time.Since(start).Microseconds())/1000)
	return out, nil
}

// Facets returns value counts over the whole cache.
func (s *Service) Facets(ctx context.Context) (model.Facets, error) {
	const op = "service.facets"

	records, err := s.snapshot.Records(ctx)
	if err != nil {
		return model.Facets{}, errs.WrapKind(op, ErrQuery, err)
	}
	start := time.Now()
	out := query.Aggregate(records)
	metrics.RecordQueryLatency("facets", float64(time.Since(start).Microseconds())/1000)
	return out, nil
}

// LastRefresh returns the most recent successful refresh of this process.
func (s *Service) LastRefresh() (model.RefreshResult, time.Time, bool) {
	rec := s.lastRefresh.Load()
	if rec == nil {
		return model.RefreshResult{}, time.Time{}, false
	}
	return rec.result, rec.at, true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"cachedRecords":  s.snapshot.Len(),
		"refreshing":     s.refreshing.Load(),
		"username":       s.username,
		"batchSize":      s.hydrator.batchSize,
		"hydrateWorkers": s.hydrator.workers,
		"batchPacingMs":  s.hydrator.pacing.Milliseconds(),
	}
	if res, at, ok := s.LastRefresh(); ok {
		stats["lastRefresh"] = map[string]interface{}{
			"runId":             res.RunID,
			"username":          res.Username,
			"totalInCollection": res.TotalInCollection,
			"totalHydrated":     res.TotalHydrated,
			"failedBatches":     res.FailedBatches,
			"at":                at.UTC().Format(time.RFC3339),
		}
	}
	return stats
}

// Close releases the cache store when it holds resources.
func (s *Service) Close() error {
	if closer, ok := s.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
