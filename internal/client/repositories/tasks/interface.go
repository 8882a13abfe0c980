package tasks

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Filter narrows List results.
type Filter struct {
	ListID           string
	IncludeCompleted bool
}

// Repository persists tasks. Upsert applies the last-write-wins comparison
// and reports whether the store actually changed; DeleteByID reports whether
// a row was removed.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, f Filter) ([]*models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	ToggleComplete(ctx context.Context, id string, now timex.Time) error
	Touch(ctx context.Context, id string, now timex.Time) error
	MoveToList(ctx context.Context, fromListID, toListID string, now timex.Time) error
	UpdatedSince(ctx context.Context, since timex.Time) ([]*models.Task, error)
	Upsert(ctx context.Context, task *models.Task) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}
