package memory

import (
	"context"
	"sort"
	"sync"

	"pictiato/internal/domain"
	repoasset "pictiato/internal/repository/asset"
)

// AssetsRepository keeps asset records in a map, mirroring the Postgres repo
// for tests and local runs.
type AssetsRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset
}

func NewAssetsRepository() *AssetsRepository {
	return &AssetsRepository{
		assets: make(map[string]*domain.Asset),
	}
}

func key(domainName, id, filename string) string {
	return domainName + "|" + id + "|" + filename
}

func (r *AssetsRepository) Create(ctx context.Context, a *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *a
	r.assets[key(a.Domain, a.ID, a.Filename)] = &copied
	return nil
}

func (r *AssetsRepository) Get(ctx context.Context, domainName, id, filename string) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[key(domainName, id, filename)]
	if !ok {
		return nil, repoasset.ErrAssetNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *AssetsRepository) ListByDomain(ctx context.Context, domainName string) ([]domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var assets []domain.Asset
	for _, a := range r.assets {
		if a.Domain == domainName {
			assets = append(assets, *a)
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Created.After(assets[j].Created)
	})
	return assets, nil
}

func (r *AssetsRepository) Delete(ctx context.Context, domainName, id, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(domainName, id, filename)
	if _, ok := r.assets[k]; !ok {
		return repoasset.ErrAssetNotFound
	}
	delete(r.assets, k)
	return nil
}
