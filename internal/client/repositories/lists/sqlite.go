package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const listColumns = `id, name, description, icon, color, is_inbox, sort_order, created_at, updated_at`

func scanList(row interface{ Scan(dest ...any) error }) (*models.List, error) {
	var l models.List
	var description, color sql.NullString
	err := row.Scan(&l.ID, &l.Name, &description, &l.Icon, &color,
		&l.IsInbox, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		l.Description = &description.String
	}
	if color.Valid {
		l.Color = &color.String
	}
	return &l, nil
}

func (r *SQLiteRepository) queryLists(ctx context.Context, query string, args ...any) ([]*models.List, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var result []*models.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list row: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.List, error) {
	return r.queryLists(ctx, `SELECT `+listColumns+` FROM lists ORDER BY sort_order, name`)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.List, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list %s: %w", id, err)
	}
	return l, nil
}

func (r *SQLiteRepository) Inbox(ctx context.Context) (*models.List, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE is_inbox = 1`)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, list *models.List) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lists (`+listColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, list.Description, list.Icon, list.Color,
		list.IsInbox, list.SortOrder, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// Update never touches the is_inbox flag; the inbox designation is fixed at
// creation time.
func (r *SQLiteRepository) Update(ctx context.Context, list *models.List) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lists SET name = ?, description = ?, icon = ?, color = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		list.Name, list.Description, list.Icon, list.Color, list.SortOrder, list.UpdatedAt, list.ID)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
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

func (r *SQLiteRepository) UpdatedSince(ctx context.Context, since timex.Time) ([]*models.List, error) {
	return r.queryLists(ctx,
		`SELECT `+listColumns+` FROM lists WHERE updated_at > ? ORDER BY id`, since)
}

// Upsert inserts the list or overwrites an existing row only when the
// incoming updated_at is strictly newer (last-write-wins). Returns whether
// the store changed.
func (r *SQLiteRepository) Upsert(ctx context.Context, list *models.List) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO lists (`+listColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			icon = excluded.icon,
			color = excluded.color,
			is_inbox = excluded.is_inbox,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at
		WHERE excluded.updated_at > lists.updated_at`,
		list.ID, list.Name, list.Description, list.Icon, list.Color,
		list.IsInbox, list.SortOrder, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// DeleteByID removes the list unless it is the inbox. Returns false with no
// error when nothing was deleted (missing id or protected inbox).
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ? AND is_inbox = 0`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
