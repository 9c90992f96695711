// Package server assembles the evidence server: database, migrations,
// object storage, key custody and the HTTP API, and runs it until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/server/config"
	"github.com/dmitrijs2005/evidencevault/internal/server/httpapi"
	"github.com/dmitrijs2005/evidencevault/internal/server/keycustody"
	"github.com/dmitrijs2005/evidencevault/internal/server/objectstore"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/evidencevault/internal/server/services"
)

// Seams for tests.
var (
	openDB               = repomanager.OpenPostgres
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newObjectStore       = func(ctx context.Context, c *config.Config) (objectstore.Store, error) {
		return objectstore.NewS3Store(ctx, c)
	}
	notifySignals = signal.Notify
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newObjectStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	custodian := keycustody.New(c.MasterKeyPassphrase, c.MasterKeySalt)
	if c.MasterKeyPassphrase == "" {
		logger.Warn(ctx, "file keys are stored without envelope encryption; set a master key passphrase to enable it")
	}

	es := services.NewEvidenceService(db, rm, store, custodian, c, logger)
	srv := httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, es, c.MaxUploadSize)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	notifySignals(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
