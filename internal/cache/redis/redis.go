package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pictiato/internal/cache"

	"github.com/redis/go-redis/v9"
)

// Store backs the derivative cache with redis. Per-key TTLs and explicit
// deletes map directly onto EXPIRE and DEL semantics.
type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Get(ctx context.Context, key string) (*cache.Entry, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry cache.Entry
	if err := entry.UnmarshalBinary(raw); err != nil {
		// a mangled entry is as good as a miss
		return nil, nil
	}
	return &entry, nil
}

func (s *Store) Set(ctx context.Context, key string, entry *cache.Entry, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, entry, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
