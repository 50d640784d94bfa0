package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/okian/boardshelf/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, model.Batch{Index: 0, IDs: []int{1, 2}}); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	b := <-q.Dequeue(ctx)
	if b.Index != 0 || len(b.IDs) != 2 {
		t.Errorf("unexpected batch %+v", b)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, model.Batch{Index: i}); err != nil {
			t.Fatalf("expected enqueue %d to succeed, got %v", i, err)
		}
	}
	if err := q.Enqueue(ctx, model.Batch{Index: 2}); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, model.Batch{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_EachBatchDeliveredOnce(t *testing.T) {
	const batches = 50
	q := NewInMemoryQueue(WithCapacity(batches))
	ctx := context.Background()

	for i := 0; i < batches; i++ {
		if err := q.Enqueue(ctx, model.Batch{Index: i}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	_ = q.Close()

	var (
		mu   sync.Mutex
		seen []int
		wg   sync.WaitGroup
	)
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range q.Dequeue(ctx) {
				mu.Lock()
				seen = append(seen, b.Index)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != batches {
		t.Fatalf("expected %d batches, got %d", batches, len(seen))
	}
	sort.Ints(seen)
	for i, idx := range seen {
		if idx != i {
			t.Fatalf("batch %d delivered %d times or missing", i, idx)
		}
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, model.Batch{Index: 0}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if err := q.Enqueue(ctx, model.Batch{Index: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after closing, got %v", err)
	}

	// Queued batches are still delivered, then the channel closes.
	ch := q.Dequeue(ctx)
	timeout := time.After(time.Second)
	delivered := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if delivered != 1 {
					t.Errorf("expected 1 delivered batch, got %d", delivered)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			delivered++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
