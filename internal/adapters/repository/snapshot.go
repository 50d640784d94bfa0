package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/metrics"
)

type generation struct {
	records []model.Record
}

// Snapshot is the in-memory current record set. Readers see either the
// previous or the new complete slice, never a mix. The slice returned by
// Records must not be modified.
type Snapshot struct {
	store  Store
	cur    atomic.Pointer[generation]
	loadMu sync.Mutex
}

// NewSnapshot creates a snapshot that lazily loads from store on first read.
func NewSnapshot(store Store) *Snapshot {
	return &Snapshot{store: store}
}

// Records returns the current generation, loading it from the store on
// first use.
func (s *Snapshot) Records(ctx context.Context) ([]model.Record, error) {
	if g := s.cur.Load(); g != nil {
		return g.records, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if g := s.cur.Load(); g != nil {
		return g.records, nil
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	// A Replace that landed while the store was being read wins.
	if !s.cur.CompareAndSwap(nil, &generation{records: records}) {
		return s.cur.Load().records, nil
	}
	metrics.UpdateCachedRecords(len(records))
	return records, nil
}

// Replace installs records as the current generation.
func (s *Snapshot) Replace(records []model.Record) {
	if records == nil {
		records = []model.Record{}
	}
	s.cur.Store(&generation{records: records})
	metrics.UpdateCachedRecords(len(records))
}

// Len returns the size of the current generation without triggering a load.
func (s *Snapshot) Len() int {
	if g := s.cur.Load(); g != nil {
		return len(g.records)
	}
	return 0
}
