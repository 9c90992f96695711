// Package journal keeps a local record of upload attempts so the CLI can
// show what was sent from this machine, including failures.
package journal

import (
	"context"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

// Repository is backed by the local SQLite database.
type Repository interface {
	// Record appends an entry and sets its ID.
	Record(ctx context.Context, e *models.JournalEntry) error

	// List returns entries of one report, or of all reports when reportID
	// is empty, oldest first.
	List(ctx context.Context, reportID string) ([]*models.JournalEntry, error)

	// MarkDeleted flags the entries of a deleted evidence item.
	MarkDeleted(ctx context.Context, evidenceID string) error
}
