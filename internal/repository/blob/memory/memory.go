package memory

import (
	"context"
	"sync"

	"pictiato/internal/repository/blob"
)

// BlobRepository keeps blobs in a map. Reads are counted so tests can tell a
// cache hit (no blob read) from a recompute.
type BlobRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	reads int
}

func NewBlobRepository() *BlobRepository {
	return &BlobRepository{
		blobs: make(map[string][]byte),
	}
}

func (r *BlobRepository) Put(ctx context.Context, path string, data []byte, contentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (r *BlobRepository) Get(ctx context.Context, path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reads++
	data, ok := r.blobs[path]
	if !ok {
		return nil, blob.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *BlobRepository) Delete(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.blobs, path)
	return nil
}

// Reads reports how many Get calls the store has served.
func (r *BlobRepository) Reads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reads
}

// Len reports the number of stored blobs.
func (r *BlobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
