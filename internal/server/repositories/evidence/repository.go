package evidence

import (
	"context"

	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

// Repository is the metadata store for evidence rows.
type Repository interface {
	Insert(ctx context.Context, file *models.EvidenceFile) error
	GetByID(ctx context.Context, id string) (*models.EvidenceFile, error)
	ListByReport(ctx context.Context, reportID string) ([]*models.EvidenceFile, error)
	Delete(ctx context.Context, id string) error
}
