package asset

import (
	"context"
	"time"

	"pictiato/internal/cache"
	"pictiato/internal/domain"
)

type assetRepository interface {
	Create(ctx context.Context, a *domain.Asset) error
	Get(ctx context.Context, domainName, id, filename string) (*domain.Asset, error)
	ListByDomain(ctx context.Context, domainName string) ([]domain.Asset, error)
	Delete(ctx context.Context, domainName, id, filename string) error
}

type blobRepository interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

type derivativeCache interface {
	Get(ctx context.Context, key string) (*cache.Entry, error)
	Set(ctx context.Context, key string, entry *cache.Entry, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type tenantRegistry interface {
	ResolveSecret(secret string) (string, error)
	IsKnownDomain(domainName string) bool
	Watermark(domainName string) string
}

// EventPublisher emits lifecycle events after successful writes. A nil
// publisher disables emission entirely.
type EventPublisher interface {
	Publish(ctx context.Context, ev *domain.AssetEvent) error
}
