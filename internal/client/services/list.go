package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/lists"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tombstones"
	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/google/uuid"
)

// CreateListInput carries the user-supplied fields for a new list.
type CreateListInput struct {
	Name        string
	Description *string
	Icon        string
	Color       *string
	SortOrder   int
}

type ListService interface {
	Create(ctx context.Context, in CreateListInput) (*models.List, error)
	Get(ctx context.Context, id string) (*models.List, error)
	GetAll(ctx context.Context) ([]*models.List, error)
	Inbox(ctx context.Context) (*models.List, error)
	Update(ctx context.Context, list *models.List) error
	Delete(ctx context.Context, id string) error
}

type listService struct {
	db       *sql.DB
	listRepo lists.Repository
}

func NewListService(db *sql.DB, listRepo lists.Repository) ListService {
	return &listService{db: db, listRepo: listRepo}
}

func (s *listService) Create(ctx context.Context, in CreateListInput) (*models.List, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	icon := in.Icon
	if icon == "" {
		icon = "📋"
	}

	now := timex.Now()
	list := &models.List{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Icon:        icon,
		Color:       in.Color,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.listRepo.Insert(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

func (s *listService) Get(ctx context.Context, id string) (*models.List, error) {
	return s.listRepo.GetByID(ctx, id)
}

func (s *listService) GetAll(ctx context.Context) ([]*models.List, error) {
	return s.listRepo.GetAll(ctx)
}

func (s *listService) Inbox(ctx context.Context) (*models.List, error) {
	return s.listRepo.Inbox(ctx)
}

func (s *listService) Update(ctx context.Context, list *models.List) error {
	list.UpdatedAt = timex.Now()
	if err := s.listRepo.Update(ctx, list); err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

// Delete removes a list, moving its tasks to the inbox first so they are
// never orphaned. The inbox itself is protected.
func (s *listService) Delete(ctx context.Context, id string) error {
	inbox, err := s.listRepo.Inbox(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve inbox: %w", err)
	}
	if inbox.ID == id {
		return common.ErrInboxProtected
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		now := timex.Now()
		if err := tasks.NewSQLiteRepository(tx).MoveToList(ctx, id, inbox.ID, now); err != nil {
			return err
		}
		removed, err := lists.NewSQLiteRepository(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return common.ErrNotFound
		}
		return tombstones.NewSQLiteRepository(tx).Add(ctx, &models.Tombstone{
			ID:         id,
			RecordType: models.RecordList,
			DeletedAt:  now,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}
