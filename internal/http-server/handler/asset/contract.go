package asset

import (
	"context"

	"pictiato/internal/domain"
	asset_uc "pictiato/internal/usecase/asset"
)

type assetUsecase interface {
	Upload(ctx context.Context, in asset_uc.UploadInput) (*domain.Asset, error)
	List(ctx context.Context, domainName string) ([]domain.Asset, error)
	Retrieve(ctx context.Context, domainName, id, filename, sizeToken string, crop bool) (*asset_uc.Derivative, error)
	Delete(ctx context.Context, domainName, id, filename, secret string) error
}
