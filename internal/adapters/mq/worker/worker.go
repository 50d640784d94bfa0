// Package worker runs batch hydration concurrently off a queue.
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

const defaultWorkerCount = 4

// Processor turns one batch of identifiers into records.
type Processor interface {
	Process(ctx context.Context, b model.Batch) ([]model.Record, error)
}

// Queue defines how workers receive batches.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Batch
}

// Result is the outcome of one batch. Records is nil when Err is set.
type Result struct {
	Batch   model.Batch
	Records []model.Record
	Err     error
	Latency time.Duration
}

// Worker processes batches until the queue drains or ctx ends.
type Worker interface {
	// Run starts the worker loop; emit receives each finished batch.
	Run(ctx context.Context, emit func(Result))
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string
	pacing    time.Duration

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, p Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		name:      "worker",
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get()
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop. It returns once the queue is closed and
// drained, or when ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context, emit func(Result)) {
	batches := w.queue.Dequeue(ctx)
	var lastDone time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-batches:
			if !ok {
				return
			}
			if !lastDone.IsZero() {
				if err := w.pace(ctx, w.pacing-time.Since(lastDone)); err != nil {
					emit(Result{Batch: b, Err: err})
					return
				}
			}
			emit(w.process(ctx, b))
			lastDone = time.Now()
		}
	}
}

func (w *InMemoryWorker) pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (w *InMemoryWorker) process(ctx context.Context, b model.Batch) Result {
	metrics.IncWorkerActive()
	defer metrics.DecWorkerActive()

	start := time.Now()
	records, err := w.processor.Process(ctx, b)
	latency := time.Since(start)
	metrics.RecordBatch(err == nil, float64(latency.Milliseconds()))

	if err != nil {
		metrics.RecordErrorByComponent("worker", "batch_failed")
		w.logger.Warn(ctx, "batch failed",
			logger.Int("batch", b.Index),
			logger.Ints("ids", b.IDs),
			logger.Error(err))
		return Result{Batch: b, Err: err, Latency: latency}
	}

	metrics.RecordRecordsHydrated(len(records))
	w.logger.Debug(ctx, "batch hydrated",
		logger.Int("batch", b.Index),
		logger.Int("records", len(records)),
		logger.Duration("latency", latency))
	return Result{Batch: b, Records: records, Latency: latency}
}

// Pool fans batches out to a fixed number of workers and joins their results.
type Pool struct {
	workers []*InMemoryWorker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers sharing q and p.
func NewPool(workerCount int, q Queue, p Processor, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, p, wopts...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Run starts every worker, waits until all have stopped, and returns one
// slot per batch index in [0, slots). Each batch writes only its own slot.
// Slots no worker reached carry ErrNotProcessed.
func (p *Pool) Run(ctx context.Context, slots int) []Result {
	results := make([]Result, slots)
	filled := make([]bool, slots)

	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *InMemoryWorker) {
			defer wg.Done()
			w.Run(ctx, func(r Result) {
				i := r.Batch.Index
				if i < 0 || i >= slots {
					p.logger.Error(ctx, "batch index out of range", logger.Int("batch", i))
					return
				}
				results[i] = r
				filled[i] = true
			})
		}(w)
	}
	wg.Wait()

	for i := range results {
		if !filled[i] {
			results[i] = Result{Batch: model.Batch{Index: i}, Err: ErrNotProcessed}
		}
	}
	return results
}
