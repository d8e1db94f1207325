package postgres

import (
	"context"
	"fmt"

	"pictiato/internal/domain"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

// AuditRepository records asset lifecycle events consumed from the broker.
type AuditRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewAuditRepository(db *dbpg.DB, retries retry.Strategy) *AuditRepository {
	return &AuditRepository{
		db:      db,
		retries: retries,
	}
}

func (r *AuditRepository) Record(ctx context.Context, ev *domain.AssetEvent) error {
	query := `
		INSERT INTO asset_audit (event_type, domain, asset_id, filename, path, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		string(ev.Type),
		ev.Domain,
		ev.AssetID,
		ev.Filename,
		ev.Path,
		ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}
