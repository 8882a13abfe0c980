package devices

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Touch(ctx context.Context, accountID, deviceID string, now timex.Time) error {
	query := `
		INSERT INTO devices (account_id, device_id, first_seen, last_seen)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (account_id, device_id)
		DO UPDATE SET last_seen = EXCLUDED.last_seen;
	`
	_, err := r.db.ExecContext(ctx, query, accountID, deviceID, now)
	if err != nil {
		return fmt.Errorf("failed to touch device: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Device, error) {
	query := `
		SELECT account_id, device_id, first_seen, last_seen
		FROM devices
		WHERE account_id = $1
		ORDER BY last_seen DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select devices: %w", err)
	}
	defer rows.Close()

	var result []*models.Device
	for rows.Next() {
		var item models.Device
		if err := rows.Scan(&item.AccountID, &item.DeviceID, &item.FirstSeen, &item.LastSeen); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
