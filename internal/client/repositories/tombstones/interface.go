package tombstones

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Repository persists deletion tombstones. Tombstones are written on local
// deletes only; the sync engine reads them for outgoing propagation and
// never removes them.
type Repository interface {
	Add(ctx context.Context, tombstone *models.Tombstone) error
	Since(ctx context.Context, since timex.Time) ([]*models.Tombstone, error)
}
