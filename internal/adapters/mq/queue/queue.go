// Package queue holds batches of identifiers waiting to be hydrated.
//
// The in-memory queue is bounded and non-blocking on enqueue; consumers
// share a single dequeue channel so every batch is handed to exactly one
// of them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Batch is the payload type flowing through the queue.
type Batch = model.Batch

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch. It fails with ErrFull or ErrClosed.
	Enqueue(ctx context.Context, b Batch) error

	// Dequeue returns the channel consumers read batches from. It is closed
	// once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close stops further enqueues. Already queued batches are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches  chan Batch
	out      chan Batch
	capacity int

	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.batches = make(chan Batch, q.capacity)
	q.out = make(chan Batch)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a batch to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.batches <- b:
		metrics.UpdateQueueSize(len(q.batches))
		return nil
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the shared consumer channel. The first call starts the
// forwarder; ctx of that call bounds it.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	q.once.Do(func() {
		go func() {
			defer close(q.out)
			for b := range q.batches {
				select {
				case q.out <- b:
					metrics.UpdateQueueSize(len(q.batches))
				case <-ctx.Done():
					return
				}
			}
		}()
	})
	return q.out
}

// Len returns the current number of queued batches.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.batches)
	metrics.UpdateQueueSize(size)
	return size
}

// Close stops further enqueues.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.batches)
	q.closed = true
	return nil
}
