package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/errs"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

// FileStore keeps the snapshot as one indented JSON array on disk.
type FileStore struct {
	path   string
	logger logger.Logger
}

// NewFileStore creates a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("filestore")
	}
	return s
}

// Load reads the saved records. A missing file yields an empty slice.
func (s *FileStore) Load(ctx context.Context) ([]model.Record, error) {
	const op = "repository.file.load"

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug(ctx, "no cache file yet", logger.String("path", s.path))
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, errs.WrapKind(op, ErrLoad, err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errs.WrapKind(op, ErrLoad, fmt.Errorf("decode %s: %w", s.path, err))
	}
	return normalizeAll(records), nil
}

// Save writes records to a temporary file next to the target and renames it
// into place.
func (s *FileStore) Save(ctx context.Context, records []model.Record) error {
	const op = "repository.file.save"

	if err := ctx.Err(); err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}

	data, err := json.MarshalIndent(normalizeAll(records), "", "  ")
	if err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errs.WrapKind(op, ErrSave, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errs.WrapKind(op, ErrSave, err)
	}
	if err := tmp.Close(); err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}

	metrics.RecordCacheSave(time.Now().Unix())
	s.logger.Info(ctx, "cache saved",
		logger.String("path", s.path),
		logger.Int("records", len(records)))
	return nil
}
