package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/okian/boardshelf/internal/domain/model"
	"github.com/okian/boardshelf/pkg/errs"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

const (
	// DefaultRedisKey holds the snapshot when no key is configured.
	DefaultRedisKey  = "boardshelf:games"
	redisPingTimeout = 5 * time.Second
)

// RedisStore keeps the snapshot as one JSON value under a single key, so a
// SET replaces it atomically.
type RedisStore struct {
	client *redis.Client
	key    string
	logger logger.Logger
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string, opts ...RedisOption) (*RedisStore, error) {
	const op = "repository.redis.connect"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errs.WrapKind(op, ErrLoad, err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.WrapKind(op, ErrLoad, err)
	}

	return NewRedisStoreFromClient(client, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, key: DefaultRedisKey}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("redisstore")
	}
	return s
}

// Load reads the snapshot. A missing key yields an empty slice.
func (s *RedisStore) Load(ctx context.Context) ([]model.Record, error) {
	const op = "repository.redis.load"

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, errs.WrapKind(op, ErrLoad, err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errs.WrapKind(op, ErrLoad, fmt.Errorf("decode %s: %w", s.key, err))
	}
	return normalizeAll(records), nil
}

// Save replaces the snapshot value.
func (s *RedisStore) Save(ctx context.Context, records []model.Record) error {
	const op = "repository.redis.save"

	data, err := json.Marshal(normalizeAll(records))
	if err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return errs.WrapKind(op, ErrSave, err)
	}

	metrics.RecordCacheSave(time.Now().Unix())
	s.logger.Info(ctx, "cache saved",
		logger.String("key", s.key),
		logger.Int("records", len(records)))
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
