// Package dbx holds the database handle shared by evidence repositories and
// the transaction helper the services run multi-step changes through.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is what a repository needs from database/sql. *sql.DB and *sql.Tx
// both satisfy it, so one repository type serves both.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. The transaction commits when fn
// returns nil and rolls back when fn fails or panics; a panic is re-raised
// after the rollback.
//
// A nil db runs fn once with a nil handle. In-memory repository managers
// ignore the handle, so services do not need a second code path for them.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	if db == nil {
		return fn(ctx, nil)
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
