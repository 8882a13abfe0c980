package tags

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Repository persists tags and the task–tag links. Links are a local
// concern and never leave the device through sync.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	Insert(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	UpdatedSince(ctx context.Context, since timex.Time) ([]*models.Tag, error)
	Upsert(ctx context.Context, tag *models.Tag) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)

	TagsForTask(ctx context.Context, taskID string) ([]*models.Tag, error)
	SetTaskTags(ctx context.Context, taskID string, tagIDs []string) error
}
