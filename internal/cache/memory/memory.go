package memory

import (
	"context"
	"sync"
	"time"

	"pictiato/internal/cache"
)

type item struct {
	entry    cache.Entry
	deadline time.Time
}

// Store is an in-process derivative cache with per-entry TTLs. It exists for
// tests and single-node setups; expired entries are dropped lazily on read.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

func New() *Store {
	return NewWithNow(time.Now)
}

// NewWithNow injects the clock, for deterministic expiry in tests.
func NewWithNow(now func() time.Time) *Store {
	return &Store{
		items: make(map[string]item),
		now:   now,
	}
}

func (s *Store) Get(ctx context.Context, key string) (*cache.Entry, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.now().After(it.deadline) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, nil
	}

	entry := it.entry
	entry.Data = append([]byte(nil), it.entry.Data...)
	return &entry, nil
}

func (s *Store) Set(ctx context.Context, key string, entry *cache.Entry, ttl time.Duration) error {
	it := item{
		entry: cache.Entry{
			ContentType: entry.ContentType,
			Data:        append([]byte(nil), entry.Data...),
		},
		deadline: s.now().Add(ttl),
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.items, key)
	}
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries, counting not-yet-collected expired
// ones out.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := s.now()
	for _, it := range s.items {
		if !now.After(it.deadline) {
			n++
		}
	}
	return n
}
