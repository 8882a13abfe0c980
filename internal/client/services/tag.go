package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/tags"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tombstones"
	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/google/uuid"
)

type TagService interface {
	Create(ctx context.Context, name, color string) (*models.Tag, error)
	GetAll(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id string) error
	TagsForTask(ctx context.Context, taskID string) ([]*models.Tag, error)
}

type tagService struct {
	db      *sql.DB
	tagRepo tags.Repository
}

func NewTagService(db *sql.DB, tagRepo tags.Repository) TagService {
	return &tagService{db: db, tagRepo: tagRepo}
}

func (s *tagService) Create(ctx context.Context, name, color string) (*models.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if color == "" {
		color = "#808080"
	}

	now := timex.Now()
	tag := &models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tagRepo.Insert(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) GetAll(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

func (s *tagService) Update(ctx context.Context, tag *models.Tag) error {
	tag.UpdatedAt = timex.Now()
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

func (s *tagService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		removed, err := tags.NewSQLiteRepository(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return common.ErrNotFound
		}
		return tombstones.NewSQLiteRepository(tx).Add(ctx, &models.Tombstone{
			ID:         id,
			RecordType: models.RecordTag,
			DeletedAt:  timex.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

func (s *tagService) TagsForTask(ctx context.Context, taskID string) ([]*models.Tag, error) {
	return s.tagRepo.TagsForTask(ctx, taskID)
}
