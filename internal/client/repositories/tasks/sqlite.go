package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/dbx"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const taskColumns = `id, title, description, url, priority, completed, list_id, due_date, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	var t models.Task
	var description, url, dueDate sql.NullString
	err := row.Scan(&t.ID, &t.Title, &description, &url, &t.Priority, &t.Completed,
		&t.ListID, &dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if url.Valid {
		t.URL = &url.String
	}
	if dueDate.Valid {
		due, err := timex.Parse(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date for task %s: %w", t.ID, err)
		}
		t.DueDate = &due
	}
	return &t, nil
}

func (r *SQLiteRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return t, nil
}

// List returns tasks ordered the way the UI shows them: open before
// completed, higher priority first, due dates last when absent.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]*models.Task, error) {
	var conditions []string
	var args []any

	if f.ListID != "" {
		conditions = append(conditions, "list_id = ?")
		args = append(args, f.ListID)
	}
	if !f.IncludeCompleted {
		conditions = append(conditions, "completed = 0")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY completed ASC,
		CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
		due_date IS NULL, due_date ASC, created_at DESC`

	return r.queryTasks(ctx, query, args...)
}

func (r *SQLiteRepository) Insert(ctx context.Context, task *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.URL, task.Priority, task.Completed,
		task.ListID, task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, task *models.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, url = ?, priority = ?, completed = ?,
			list_id = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.URL, task.Priority, task.Completed,
		task.ListID, task.DueDate, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ToggleComplete(ctx context.Context, id string, now timex.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET completed = NOT completed, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Touch bumps updated_at without changing anything else, marking the task
// as modified for the sync collector.
func (r *SQLiteRepository) Touch(ctx context.Context, id string, now timex.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("failed to touch task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// MoveToList reassigns every task in fromListID to toListID, bumping
// updated_at so the move propagates through sync.
func (r *SQLiteRepository) MoveToList(ctx context.Context, fromListID, toListID string, now timex.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET list_id = ?, updated_at = ? WHERE list_id = ?`, toListID, now, fromListID)
	if err != nil {
		return fmt.Errorf("failed to move tasks to list %s: %w", toListID, err)
	}
	return nil
}

func (r *SQLiteRepository) UpdatedSince(ctx context.Context, since timex.Time) ([]*models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE updated_at > ? ORDER BY id`, since)
}

// Upsert inserts the task or overwrites an existing row only when the
// incoming updated_at is strictly newer (last-write-wins). Returns whether
// the store changed.
func (r *SQLiteRepository) Upsert(ctx context.Context, task *models.Task) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			priority = excluded.priority,
			completed = excluded.completed,
			list_id = excluded.list_id,
			due_date = excluded.due_date,
			updated_at = excluded.updated_at
		WHERE excluded.updated_at > tasks.updated_at`,
		task.ID, task.Title, task.Description, task.URL, task.Priority, task.Completed,
		task.ListID, task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to unlink task tags: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
