package client

import (
	"context"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	UploadEvidence(ctx context.Context, reportID string, u *models.EncryptedUpload) (*models.EvidenceItem, error)
	ListEvidence(ctx context.Context, reportID string) ([]models.EvidenceItem, error)
	GetAccess(ctx context.Context, evidenceID string, intent models.Intent) (*models.AccessGrant, error)
	DeleteEvidence(ctx context.Context, evidenceID string) error
}
