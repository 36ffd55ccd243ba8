package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/redis/go-redis/v9"
)

// Snapshot stores a collection as a single JSON value under one key.
type Snapshot[T any] struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewSnapshot returns a repository bound to key. A zero ttl keeps the value forever.
func NewSnapshot[T any](rdb *redis.Client, key string, ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{rdb: rdb, key: key, ttl: ttl}
}

func (s *Snapshot[T]) Key() string { return s.key }

// Load reads the collection. With a ttl set the read also renews it, so an
// active visitor's data does not expire under them.
func (s *Snapshot[T]) Load(ctx context.Context) ([]T, error) {
	get := s.rdb.Get(ctx, s.key)
	if s.ttl > 0 {
		get = s.rdb.GetEx(ctx, s.key, s.ttl)
	}
	data, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	items, err := snapshot.Decode[T](data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.key, err)
	}
	return items, nil
}

func (s *Snapshot[T]) Save(ctx context.Context, items []T) error {
	data, err := snapshot.Encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
