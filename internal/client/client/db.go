package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for tests.
var gooseUpContext = goose.UpContext

// RunMigrations applies the embedded client migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the local journal database and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal migrations: %w", err)
	}

	return db, nil
}
