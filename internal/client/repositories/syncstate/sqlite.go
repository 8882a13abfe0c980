package syncstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/google/uuid"
)

// Keys in the sync_state table.
const (
	keyLastSync = "last_sync"
	keyDeviceID = "device_id"
	keyConfig   = "sync_config"
)

// SQLiteRepository implements Repository over the sync_state key/value table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get sync_state[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set sync_state[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) GetLastSync(ctx context.Context) (*timex.Time, error) {
	value, ok, err := r.get(ctx, keyLastSync)
	if err != nil || !ok {
		return nil, err
	}
	ts, err := timex.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("corrupt last_sync value: %w", err)
	}
	return &ts, nil
}

func (r *SQLiteRepository) SetLastSync(ctx context.Context, ts timex.Time) error {
	return r.set(ctx, keyLastSync, ts.String())
}

func (r *SQLiteRepository) ClearLastSync(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_state WHERE key = ?`, keyLastSync)
	if err != nil {
		return fmt.Errorf("failed to clear last_sync: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetOrCreateDeviceID(ctx context.Context) (string, error) {
	value, ok, err := r.get(ctx, keyDeviceID)
	if err != nil {
		return "", err
	}
	if ok {
		return value, nil
	}
	id := uuid.NewString()
	if err := r.set(ctx, keyDeviceID, id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRepository) GetConfig(ctx context.Context) (Config, error) {
	value, ok, err := r.get(ctx, keyConfig)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	var cfg Config
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return Config{}, fmt.Errorf("corrupt sync_config value: %w", err)
	}
	return cfg, nil
}

func (r *SQLiteRepository) SaveConfig(ctx context.Context, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync config: %w", err)
	}
	return r.set(ctx, keyConfig, string(data))
}
