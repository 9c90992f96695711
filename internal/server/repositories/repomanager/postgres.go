// Package repomanager provides a concrete RepositoryManager for PostgreSQL
// and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/server/migrations"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/evidence"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager builds PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

// Evidence returns an evidence.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Evidence(db dbx.DBTX) evidence.Repository {
	return evidence.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// memoryManager serves one shared in-memory repository regardless of DBTX.
type memoryManager struct {
	repo *evidence.MemoryRepository
}

// NewMemoryRepositoryManager returns a RepositoryManager without a database.
func NewMemoryRepositoryManager() RepositoryManager {
	return &memoryManager{repo: evidence.NewMemoryRepository()}
}

func (m *memoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memoryManager) Evidence(dbx.DBTX) evidence.Repository { return m.repo }
