package domain

import (
	"fmt"
	"time"
)

// Asset is the metadata record for one stored canonical image. The blob path
// is fully determined by (Domain, Created, Filename) and is never recomputed
// after creation; renaming or moving an asset is unsupported.
type Asset struct {
	ID            string
	Filename      string
	Domain        string
	ContentLength int64
	Expires       *time.Time
	Created       time.Time
}

// StoragePath returns the blob store key, domain/YYYY/MM/DD/filename.
// This layout is load-bearing: retrieval derives the same path on every hit.
func (a *Asset) StoragePath() string {
	return fmt.Sprintf("%s/%s/%s", a.Domain, a.Created.UTC().Format("2006/01/02"), a.Filename)
}

// FetchPath returns the public retrieval path, also the cache key prefix.
func (a *Asset) FetchPath() string {
	return "/" + a.Domain + "/" + a.ID + "/" + a.Filename
}

const (
	DefaultMaxUploadSize = 32 << 20
	DefaultJPEGQuality   = 85

	CanonicalContentType = "image/jpeg"
	CanonicalExtension   = ".jpeg"

	// Fallback lifetime for derivative cache entries when the asset has no
	// expiry, or when its expiry is already in the past.
	DefaultDerivativeTTL = 7 * 24 * time.Hour
)
