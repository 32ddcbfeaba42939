package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SaveLastSync stores the time of the last successful sync of kind.
func (r *Repository) SaveLastSync(ctx context.Context, kind string, at time.Time) error {
	defer r.observe("save_last_sync", time.Now())

	query := `
		INSERT INTO sync_status (kind, last_synced_at)
		VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE SET last_synced_at = $2, updated_at = CURRENT_TIMESTAMP;`

	_, err := r.db.Exec(ctx, query, kind, at)
	if err != nil {
		return fmt.Errorf("failed to execute insert query: %w", err)
	}

	return nil
}

// GetLastSync returns the time of the last successful sync of kind, or ErrNotFound if it never ran.
func (r *Repository) GetLastSync(ctx context.Context, kind string) (time.Time, error) {
	defer r.observe("get_last_sync", time.Now())

	query := "SELECT last_synced_at FROM sync_status WHERE kind = $1"

	var lastSync time.Time

	err := r.db.QueryRow(ctx, query, kind).Scan(&lastSync)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("last sync of %s: %w", kind, ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync of %s: %w", kind, err)
	}

	return lastSync, nil
}
