package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes rec unless the stored row is at least as new. Timestamps are
// fixed-width UTC strings, so the TEXT comparison is chronological.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.Record) (bool, error) {
	query := `
		INSERT INTO records (account_id, id, record_type, payload, updated_at, deleted, deleted_at, device_id)
		VALUES ($1, $2, $3, $4, $5, FALSE, NULL, $6)
		ON CONFLICT (account_id, id)
		DO UPDATE SET
			record_type = EXCLUDED.record_type,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at,
			deleted = FALSE,
			deleted_at = NULL,
			device_id = EXCLUDED.device_id
			WHERE EXCLUDED.updated_at > records.updated_at;
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.AccountID, rec.ID, rec.RecordType, rec.Payload, rec.UpdatedAt, rec.DeviceID)
	if err != nil {
		return false, fmt.Errorf("failed to upsert record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// MarkDeleted turns the row into a tombstone, creating it if absent. The
// row's updated_at becomes the deletion time so later re-creates win the
// ordinary comparison against it.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (account_id, id, record_type, payload, updated_at, deleted, deleted_at, device_id)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
		ON CONFLICT (account_id, id)
		DO UPDATE SET
			record_type = EXCLUDED.record_type,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at,
			deleted = TRUE,
			deleted_at = EXCLUDED.deleted_at,
			device_id = EXCLUDED.device_id;
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.AccountID, rec.ID, rec.RecordType, rec.Payload, rec.UpdatedAt, rec.DeletedAt, rec.DeviceID)
	if err != nil {
		return fmt.Errorf("failed to mark record deleted: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatedSince(ctx context.Context, accountID string, since *timex.Time, excludeDeviceID string) ([]*models.Record, error) {
	query := `
		SELECT account_id, id, record_type, payload, updated_at, deleted, deleted_at, device_id
		FROM records
		WHERE account_id = $1 AND ($2::text IS NULL OR updated_at > $2) AND device_id <> $3
		ORDER BY updated_at, id
	`
	var sinceArg any
	if since != nil {
		sinceArg = since.String()
	}
	rows, err := r.db.QueryContext(ctx, query, accountID, sinceArg, excludeDeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		var item models.Record
		var deletedAt sql.NullString
		if err := rows.Scan(
			&item.AccountID, &item.ID, &item.RecordType, &item.Payload,
			&item.UpdatedAt, &item.Deleted, &deletedAt, &item.DeviceID,
		); err != nil {
			return nil, err
		}
		if deletedAt.Valid {
			ts, err := timex.Parse(deletedAt.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt deleted_at for record %s: %w", item.ID, err)
			}
			item.DeletedAt = &ts
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
