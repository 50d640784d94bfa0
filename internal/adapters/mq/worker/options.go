// Package worker runs batch hydration concurrently off a queue.
package worker

import (
	"time"

	"github.com/okian/boardshelf/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithPacing sets the minimum gap between the end of one batch and the
// start of the next on the same worker.
func WithPacing(d time.Duration) Option {
	return func(w *InMemoryWorker) {
		if d >= 0 {
			w.pacing = d
		}
	}
}
