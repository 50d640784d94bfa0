// Package dedupe removes repeated catalog identifiers before hydration.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen identifiers.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id int) bool
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[int]struct{}
}

// NewInMemoryDeduper creates an unbounded deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[int]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

// Unique returns ids with repeats removed, keeping the first occurrence and
// the original order. The second return value is the number of dropped ids.
func Unique(ctx context.Context, ids []int) ([]int, int) {
	d := NewInMemoryDeduper()
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if d.SeenAndRecord(ctx, id) {
			continue
		}
		out = append(out, id)
	}
	return out, len(ids) - len(out)
}
