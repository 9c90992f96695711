package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/evidence"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// code runs against *sql.DB or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Evidence(db dbx.DBTX) evidence.Repository
}
