// Package server initializes and runs the tickit-sync server: it opens the
// record store, wires the sync service into the HTTP API and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/server/auth"
	"github.com/dmitrijs2005/tickit/internal/server/config"
	"github.com/dmitrijs2005/tickit/internal/server/httpapi"
	"github.com/dmitrijs2005/tickit/internal/server/repositories/devices"
	"github.com/dmitrijs2005/tickit/internal/server/repositories/records"
	"github.com/dmitrijs2005/tickit/internal/server/services"
	"github.com/dmitrijs2005/tickit/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	syncService *services.SyncService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	syncService := services.NewSyncService(
		records.NewPostgresRepository(db),
		devices.NewPostgresRepository(db),
		logger,
	)

	return &App{config: c, logger: logger, syncService: syncService}, nil
}

// MintToken prints an access token for the configured account id. Used for
// provisioning devices; not an auth system.
func MintToken(c *config.Config) error {
	token, err := auth.GenerateToken(c.MintTokenFor, []byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler := httpapi.NewHandler(app.syncService, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddr, handler.Routes([]byte(app.config.SecretKey)), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
