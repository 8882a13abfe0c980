package lists

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Repository persists lists. The inbox list is protected: DeleteByID never
// removes it and reports false instead. Upsert applies the last-write-wins
// comparison and reports whether the store actually changed.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.List, error)
	GetByID(ctx context.Context, id string) (*models.List, error)
	Inbox(ctx context.Context) (*models.List, error)
	Insert(ctx context.Context, list *models.List) error
	Update(ctx context.Context, list *models.List) error
	UpdatedSince(ctx context.Context, since timex.Time) ([]*models.List, error)
	Upsert(ctx context.Context, list *models.List) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}
