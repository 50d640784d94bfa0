package service

import (
	"context"
	"time"

	"github.com/okian/boardshelf/internal/adapters/bgg"
	"github.com/okian/boardshelf/internal/adapters/mq/queue"
	"github.com/okian/boardshelf/internal/adapters/mq/worker"
	"github.com/okian/boardshelf/internal/domain/dedupe"
	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/logger"
)

// Default hydration configuration constants.
const (
	defaultBatchSize      = 10
	defaultHydrateWorkers = 4
	defaultBatchPacing    = 2 * time.Second
)

// ThingFetcher bulk-fetches raw item documents.
type ThingFetcher interface {
	FetchThings(ctx context.Context, ids []int) ([]byte, error)
}

// thingProcessor adapts a ThingFetcher and the record parser to worker.Processor.
type thingProcessor struct {
	fetcher ThingFetcher
	ratings model.Ratings
}

func (p *thingProcessor) Process(ctx context.Context, b model.Batch) ([]model.Record, error) {
	doc, err := p.fetcher.FetchThings(ctx, b.IDs)
	if err != nil {
		return nil, err
	}
	return bgg.ParseThings(doc, p.ratings)
}

// HydrationResult is the merged outcome of one hydration pass.
type HydrationResult struct {
	Records    []model.Record
	Batches    int
	Failed     int
	Duplicates int
}

// Hydrator fetches item metadata in bounded batches with limited
// concurrency and per-worker pacing. Failed batches contribute nothing.
type Hydrator struct {
	fetcher   ThingFetcher
	batchSize int
	workers   int
	pacing    time.Duration
	logger    logger.Logger
}

// NewHydrator creates a hydrator with default batch size, workers and pacing.
func NewHydrator(fetcher ThingFetcher) *Hydrator {
	return &Hydrator{
		fetcher:   fetcher,
		batchSize: defaultBatchSize,
		workers:   defaultHydrateWorkers,
		pacing:    defaultBatchPacing,
		logger:    logger.Get().Named("hydrator"),
	}
}

// Hydrate fetches records for ids. Records follow the order of their
// batches; ids missing from a batch reply are simply absent.
func (h *Hydrator) Hydrate(ctx context.Context, ids []int, ratings model.Ratings) HydrationResult {
	unique, dropped := dedupe.Unique(ctx, ids)
	if dropped > 0 {
		h.logger.Warn(ctx, "dropping repeated collection ids", logger.Int("duplicates", dropped))
	}

	batches := model.Partition(unique, h.batchSize)
	if len(batches) == 0 {
		return HydrationResult{Records: []model.Record{}, Duplicates: dropped}
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(batches)))
	for _, b := range batches {
		if err := q.Enqueue(ctx, b); err != nil {
			h.logger.Error(ctx, "failed to enqueue batch", logger.Int("batch", b.Index), logger.Error(err))
		}
	}
	_ = q.Close()

	pool := worker.NewPool(min(h.workers, len(batches)), q,
		&thingProcessor{fetcher: h.fetcher, ratings: ratings},
		worker.WithPacing(h.pacing),
		worker.WithLogger(h.logger))
	results := pool.Run(ctx, len(batches))

	out := HydrationResult{Records: make([]model.Record, 0, len(unique)), Batches: len(batches), Duplicates: dropped}
	for _, r := range results {
		if r.Err != nil {
			out.Failed++
			continue
		}
		out.Records = append(out.Records, r.Records...)
	}
	return out
}
