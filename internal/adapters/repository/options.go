package repository

import "github.com/okian/boardshelf/pkg/logger"

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets a custom logger for the file store.
func WithFileLogger(l logger.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithKey sets the key the snapshot is stored under.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithRedisLogger sets a custom logger for the redis store.
func WithRedisLogger(l logger.Logger) RedisOption {
	return func(s *RedisStore) {
		if l != nil {
			s.logger = l
		}
	}
}
