// Package cache defines the derivative cache: the deterministic key space of
// an asset, the TTL policy, and the wire form of an entry. Backends live in
// subpackages; all of them are strictly a performance optimization and are
// rebuildable from the asset and blob stores at any time.
package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// Entry is one cached derivative.
type Entry struct {
	ContentType string
	Data        []byte
}

// Store is a derivative cache backend. Get reports a miss as (nil, nil).
// Callers must treat any error as a miss and recompute: the cache never
// fails a request.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MarshalBinary frames an entry as content type, NUL, payload.
func (e *Entry) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(e.ContentType)+1+len(e.Data))
	out = append(out, e.ContentType...)
	out = append(out, 0)
	out = append(out, e.Data...)
	return out, nil
}

func (e *Entry) UnmarshalBinary(data []byte) error {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return fmt.Errorf("malformed cache entry: no content type delimiter")
	}
	e.ContentType = string(data[:i])
	e.Data = append([]byte(nil), data[i+1:]...)
	return nil
}

// TTL derives an entry lifetime from the asset expiry. Assets without an
// expiry, and assets whose expiry has already passed, get the fallback:
// an elapsed expiry must never become "cache forever" or "do not cache".
func TTL(expires *time.Time, now time.Time, fallback time.Duration) time.Duration {
	if expires == nil {
		return fallback
	}
	d := expires.Sub(now)
	if d <= 0 {
		return fallback
	}
	return d
}
