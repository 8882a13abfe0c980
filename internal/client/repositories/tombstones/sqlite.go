package tombstones

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add records a deletion. Re-deleting the same id refreshes deleted_at, so
// a delete-recreate-delete sequence propagates with the latest timestamp.
func (r *SQLiteRepository) Add(ctx context.Context, tombstone *models.Tombstone) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_tombstones (id, record_type, deleted_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record_type = excluded.record_type, deleted_at = excluded.deleted_at`,
		tombstone.ID, tombstone.RecordType, tombstone.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to add tombstone: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Since(ctx context.Context, since timex.Time) ([]*models.Tombstone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, record_type, deleted_at FROM sync_tombstones WHERE deleted_at > ? ORDER BY id`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query tombstones: %w", err)
	}
	defer rows.Close()

	var result []*models.Tombstone
	for rows.Next() {
		var t models.Tombstone
		if err := rows.Scan(&t.ID, &t.RecordType, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tombstone row: %w", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tombstone rows: %w", err)
	}
	return result, nil
}
