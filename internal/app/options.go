package service

import (
	"time"

	"github.com/okian/boardshelf/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUsername sets the collection owner used when a refresh has no override.
func WithUsername(username string) Option {
	return func(s *Service) {
		s.username = username
	}
}

// WithRefreshTimeout bounds one whole ingestion run.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshTimeout = d
		}
	}
}

// WithBatchSize sets how many ids go into one bulk fetch.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.hydrator.batchSize = size
		}
	}
}

// WithHydrateWorkers sets how many batches may be in flight at once.
func WithHydrateWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hydrator.workers = n
		}
	}
}

// WithBatchPacing sets the delay a worker observes between its batches.
func WithBatchPacing(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.hydrator.pacing = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
			s.hydrator.logger = l.Named("hydrator")
		}
	}
}
