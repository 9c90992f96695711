package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/client/client"
	"github.com/dmitrijs2005/evidencevault/internal/client/config"
	"github.com/dmitrijs2005/evidencevault/internal/client/repositories/journal"
	"github.com/dmitrijs2005/evidencevault/internal/client/services"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config      *config.Config
	api         client.Client
	evidence    services.EvidenceService
	journal     journal.Repository
	db          *sql.DB
	logger      logging.Logger
	in          io.Reader
	out         io.Writer
	downloadDir string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	db, err := client.InitDatabase(ctx, c.JournalPath)
	if err != nil {
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	es := services.NewEvidenceService(apiClient, nil, logger)

	return &App{
		config:      c,
		api:         apiClient,
		evidence:    es,
		journal:     journal.NewSQLiteRepository(db),
		db:          db,
		logger:      logger,
		in:          os.Stdin,
		out:         os.Stdout,
		downloadDir: "downloads",
	}, nil
}

// Run executes the command in args, or starts the prompt when args holds
// no command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(positional(args)) == 0 {
		a.Root(ctx, bufio.NewScanner(a.in))
		return nil
	}
	return a.execute(ctx, args)
}

// Close releases the journal database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// writesToTerminal reports whether w is an interactive terminal.
func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
