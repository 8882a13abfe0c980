package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/tickit/internal/client/config"
	"github.com/dmitrijs2005/tickit/internal/client/services"
	"github.com/dmitrijs2005/tickit/internal/client/storage"
	"github.com/dmitrijs2005/tickit/internal/client/sync"
	"github.com/dmitrijs2005/tickit/internal/logging"

	_ "modernc.org/sqlite"
)

// App ties the store, services and sync machinery to the REPL.
type App struct {
	config    *config.Config
	repos     *storage.Repositories
	taskSvc   services.TaskService
	listSvc   services.ListService
	tagSvc    services.TagService
	engine    *sync.Engine
	scheduler *sync.Scheduler
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewFileLogger(c.LogFile)

	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to initialize database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	collector := sync.NewCollector(repos.Task, repos.List, repos.Tag, repos.Tombstone)
	engine := sync.NewEngine(repos.SyncState, repos.Task, repos.List, repos.Tag,
		collector, sync.NewHTTPTransport(), log)

	return &App{
		config:    c,
		repos:     repos,
		taskSvc:   services.NewTaskService(repos.DB, repos.Task, repos.List, repos.Tag),
		listSvc:   services.NewListService(repos.DB, repos.List),
		tagSvc:    services.NewTagService(repos.DB, repos.Tag),
		engine:    engine,
		scheduler: sync.NewScheduler(engine, log),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background sync scheduler and the REPL, blocking until the
// user exits.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.repos.SyncState.GetConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Ready() {
		if err := a.scheduler.Start(ctx, cfg.IntervalSecs); err != nil {
			return err
		}
		defer a.scheduler.Stop()
	}

	a.Root(ctx)
	return a.repos.DB.Close()
}

// changed nudges the scheduler after a local mutation.
func (a *App) changed() {
	a.scheduler.RequestSoon()
}
