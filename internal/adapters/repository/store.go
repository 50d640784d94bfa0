// Package repository persists the hydrated record snapshot and keeps the
// current generation in memory for readers.
package repository

import (
	"context"

	"github.com/okian/boardshelf/internal/domain/model"
)

// Store loads and replaces the whole persisted record set.
type Store interface {
	// Load returns the last saved records, or an empty slice when nothing
	// has been saved yet.
	Load(ctx context.Context) ([]model.Record, error)

	// Save replaces the persisted records. Readers never observe a
	// partially written set.
	Save(ctx context.Context, records []model.Record) error
}

func normalizeAll(records []model.Record) []model.Record {
	if records == nil {
		return []model.Record{}
	}
	for i := range records {
		records[i].Normalize()
	}
	return records
}
