// Package storage opens the local SQLite database, applies migrations and
// wires up the repositories.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/client/migrations"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/lists"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tags"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/client/repositories/tombstones"
	"github.com/dmitrijs2005/tickit/internal/common"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories bundles every repository backed by the local database.
type Repositories struct {
	Task      tasks.Repository
	List      lists.Repository
	Tag       tags.Repository
	Tombstone tombstones.Repository
	SyncState syncstate.Repository

	DB *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the database at dsn, migrates it to the current schema
// and seeds the Inbox list if it is missing.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	repos := &Repositories{
		Task:      tasks.NewSQLiteRepository(db),
		List:      lists.NewSQLiteRepository(db),
		Tag:       tags.NewSQLiteRepository(db),
		Tombstone: tombstones.NewSQLiteRepository(db),
		SyncState: syncstate.NewSQLiteRepository(db),
		DB:        db,
	}

	if err := ensureInbox(ctx, repos.List); err != nil {
		db.Close()
		return nil, err
	}

	return repos, nil
}

// ensureInbox creates the default Inbox list on first run. The Inbox keeps a
// random id so it syncs between devices like any other list.
func ensureInbox(ctx context.Context, r lists.Repository) error {
	_, err := r.Inbox(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	now := timex.Now()
	desc := "Default list for new tasks"
	return r.Insert(ctx, &models.List{
		ID:          uuid.NewString(),
		Name:        "Inbox",
		Description: &desc,
		Icon:        "📥",
		IsInbox:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
