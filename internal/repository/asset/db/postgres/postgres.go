package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pictiato/internal/domain"
	repoasset "pictiato/internal/repository/asset"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type AssetsRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewAssetsRepository(db *dbpg.DB, retries retry.Strategy) *AssetsRepository {
	return &AssetsRepository{
		db:      db,
		retries: retries,
	}
}

func (r *AssetsRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `
		INSERT INTO assets (id, filename, domain, content_length, expires, created)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var expires sql.NullTime
	if a.Expires != nil {
		expires = sql.NullTime{Time: *a.Expires, Valid: true}
	}

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		a.ID,
		a.Filename,
		a.Domain,
		a.ContentLength,
		expires,
		a.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *AssetsRepository) Get(ctx context.Context, domainName, id, filename string) (*domain.Asset, error) {
	query := `
		SELECT id, filename, domain, content_length, expires, created
		FROM assets
		WHERE domain = $1 AND id = $2 AND filename = $3
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, domainName, id, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset: %w", err)
	}

	a, err := scanAsset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repoasset.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}
	return a, nil
}

func (r *AssetsRepository) ListByDomain(ctx context.Context, domainName string) ([]domain.Asset, error) {
	query := `
		SELECT id, filename, domain, content_length, expires, created
		FROM assets
		WHERE domain = $1
		ORDER BY created DESC
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, domainName)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

func (r *AssetsRepository) Delete(ctx context.Context, domainName, id, filename string) error {
	query := `DELETE FROM assets WHERE domain = $1 AND id = $2 AND filename = $3`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, domainName, id, filename)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return repoasset.ErrAssetNotFound
	}
	return nil
}

func scanAsset(scan func(dest ...any) error) (*domain.Asset, error) {
	var a domain.Asset
	var expires sql.NullTime

	if err := scan(&a.ID, &a.Filename, &a.Domain, &a.ContentLength, &expires, &a.Created); err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		a.Expires = &t
	}
	return &a, nil
}
