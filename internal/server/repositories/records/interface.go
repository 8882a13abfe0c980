// Package records provides the PostgreSQL-backed store of synchronized
// records, one row per (account, entity).
package records

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Repository persists records. Upsert applies the last-write-wins comparison
// and reports whether the row actually changed; MarkDeleted turns a row into
// a tombstone unconditionally, deletions carry no timestamp comparison.
type Repository interface {
	Upsert(ctx context.Context, rec *models.Record) (bool, error)
	MarkDeleted(ctx context.Context, rec *models.Record) error

	// UpdatedSince returns the account's records with updated_at strictly
	// greater than since (all records when since is nil), excluding rows last
	// written by excludeDeviceID, ordered by updated_at then id.
	UpdatedSince(ctx context.Context, accountID string, since *timex.Time, excludeDeviceID string) ([]*models.Record, error)
}
