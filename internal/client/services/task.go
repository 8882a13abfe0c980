// Package services implements the local CRUD operations on top of the
// repositories. Every mutation bumps updated_at so the sync collector can
// pick it up, and every delete records a tombstone in the same transaction.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/lists"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tags"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tombstones"
	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/google/uuid"
)

// CreateTaskInput carries the user-supplied fields for a new task. Zero
// values fall back to defaults: medium priority and the inbox list.
type CreateTaskInput struct {
	Title       string
	Description *string
	URL         *string
	Priority    models.Priority
	ListID      string
	DueDate     *timex.Time
	TagIDs      []string
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, f tasks.Filter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Toggle(ctx context.Context, id string) error
	SetTags(ctx context.Context, taskID string, tagIDs []string) error
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	db       *sql.DB
	taskRepo tasks.Repository
	listRepo lists.Repository
	tagRepo  tags.Repository
}

func NewTaskService(db *sql.DB, taskRepo tasks.Repository, listRepo lists.Repository, tagRepo tags.Repository) TaskService {
	return &taskService{db: db, taskRepo: taskRepo, listRepo: listRepo, tagRepo: tagRepo}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}

	listID := in.ListID
	if listID == "" {
		inbox, err := s.listRepo.Inbox(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve inbox: %w", err)
		}
		listID = inbox.ID
	}

	now := timex.Now()
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Priority:    priority,
		ListID:      listID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		TagIDs:      in.TagIDs,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tasks.NewSQLiteRepository(tx).Insert(ctx, task); err != nil {
			return err
		}
		if len(in.TagIDs) > 0 {
			return tags.NewSQLiteRepository(tx).SetTaskTags(ctx, task.ID, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taskTags, err := s.tagRepo.TagsForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, tag := range taskTags {
		task.TagIDs = append(task.TagIDs, tag.ID)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, f tasks.Filter) ([]*models.Task, error) {
	return s.taskRepo.List(ctx, f)
}

func (s *taskService) Update(ctx context.Context, task *models.Task) error {
	if !task.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", task.Priority)
	}
	task.UpdatedAt = timex.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (s *taskService) Toggle(ctx context.Context, id string) error {
	return s.taskRepo.ToggleComplete(ctx, id, timex.Now())
}

func (s *taskService) SetTags(ctx context.Context, taskID string, tagIDs []string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tags.NewSQLiteRepository(tx).SetTaskTags(ctx, taskID, tagIDs); err != nil {
			return err
		}
		// Bump the task so the link change rides along on the next sync.
		return tasks.NewSQLiteRepository(tx).Touch(ctx, taskID, timex.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to set task tags: %w", err)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		removed, err := tasks.NewSQLiteRepository(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return common.ErrNotFound
		}
		return tombstones.NewSQLiteRepository(tx).Add(ctx, &models.Tombstone{
			ID:         id,
			RecordType: models.RecordTask,
			DeletedAt:  timex.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
