// Package services implements the client-side evidence pipelines: encrypt
// and upload a batch of files, fetch and decrypt one file, list and delete.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/client/client"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/netx"
	"github.com/dmitrijs2005/evidencevault/internal/transcode"
)

// ProgressFunc receives the share of the batch already processed, 0..100.
type ProgressFunc func(percent int)

type EvidenceService interface {
	Upload(ctx context.Context, reportID string, files []models.LocalFile, progress ProgressFunc) []models.UploadResult
	Retrieve(ctx context.Context, item models.EvidenceItem, intent models.Intent) (*models.Plaintext, error)
	List(ctx context.Context, reportID string) ([]models.EvidenceItem, error)
	Delete(ctx context.Context, evidenceID string) error
}

type evidenceService struct {
	client      client.Client
	logger      logging.Logger
	generateKey func() (*cryptox.Key, error)
	download    func(ctx context.Context, url string) ([]byte, error)
	readFile    func(name string) ([]byte, error)
}

// NewEvidenceService builds the service. httpClient is used for signed-URL
// downloads; nil means http.DefaultClient.
func NewEvidenceService(c client.Client, httpClient *http.Client, logger logging.Logger) EvidenceService {
	return &evidenceService{
		client:      c,
		logger:      logger.With("module", "evidence"),
		generateKey: cryptox.GenerateKey,
		download: func(ctx context.Context, url string) ([]byte, error) {
			return netx.DownloadFromPresignedURL(ctx, httpClient, url)
		},
		readFile: os.ReadFile,
	}
}

// Upload encrypts and sends files one after another. Every file gets its own
// key and IV. A failed file does not stop the batch; only a missing source of
// randomness or a cancelled ctx (checked between files) ends it early, and
// the files not attempted carry that error.
func (s *evidenceService) Upload(ctx context.Context, reportID string, files []models.LocalFile, progress ProgressFunc) []models.UploadResult {
	results := make([]models.UploadResult, len(files))
	for i, f := range files {
		results[i].FileName = f.Name
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			fail(results[i:], err)
			break
		}

		id, err := s.uploadOne(ctx, reportID, f)
		results[i].EvidenceID = id
		results[i].Err = err

		if err != nil {
			s.logger.Warn(ctx, "upload failed", "report_id", reportID, "file", f.Name, "error", err)
			if errors.Is(err, common.ErrEnvironment) {
				fail(results[i+1:], err)
				break
			}
		} else {
			s.logger.Info(ctx, "uploaded", "report_id", reportID, "file", f.Name, "id", id)
		}

		if progress != nil {
			progress((i + 1) * 100 / len(files))
		}
	}

	return results
}

func fail(results []models.UploadResult, err error) {
	for i := range results {
		results[i].Err = err
	}
}

// uploadOne runs key generation, encryption, encoding and transmission for a
// single file. Once started it is not interrupted by ctx cancellation.
func (s *evidenceService) uploadOne(ctx context.Context, reportID string, f models.LocalFile) (string, error) {
	key, err := s.generateKey()
	if err != nil {
		return "", err
	}

	data := f.Data
	if data == nil {
		if f.Path == "" {
			return "", fmt.Errorf("%w: %s has no content", common.ErrValidation, f.Name)
		}
		if data, err = s.readFile(f.Path); err != nil {
			return "", fmt.Errorf("read %s: %w", f.Path, err)
		}
	}
	size := int64(len(data))

	ciphertext, iv, err := cryptox.Encrypt(data, key)
	if f.Data == nil {
		// read from disk here, so no caller holds this buffer
		common.WipeByteArray(data)
	}
	if err != nil {
		return "", err
	}

	exported, err := cryptox.ExportKey(key)
	if err != nil {
		return "", err
	}

	item, err := s.client.UploadEvidence(context.WithoutCancel(ctx), reportID, &models.EncryptedUpload{
		FileName:   f.Name,
		MimeType:   f.MimeType,
		Size:       size,
		Ciphertext: transcode.ToBase64(ciphertext),
		Key:        exported,
		IV:         transcode.ToBase64(iv),
	})
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

// Retrieve fetches and decrypts one evidence file. Preview of anything but
// an image is refused before any request is made. Every problem with the
// key, the IV or the ciphertext is reported as common.ErrCannotDecrypt.
func (s *evidenceService) Retrieve(ctx context.Context, item models.EvidenceItem, intent models.Intent) (*models.Plaintext, error) {
	switch intent {
	case models.IntentDownload:
	case models.IntentPreview:
		if !models.IsImage(item.MimeType) {
			return nil, fmt.Errorf("%w: preview is not available for %q", common.ErrValidation, item.MimeType)
		}
	default:
		return nil, fmt.Errorf("%w: unknown intent %q", common.ErrValidation, intent)
	}

	grant, err := s.client.GetAccess(ctx, item.ID, intent)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.download(ctx, grant.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	iv, err := transcode.FromBase64(grant.IV)
	if err != nil {
		return nil, common.ErrCannotDecrypt
	}

	key, err := cryptox.ImportKey(grant.Key)
	if err != nil {
		return nil, common.ErrCannotDecrypt
	}

	plaintext, err := cryptox.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}

	return &models.Plaintext{FileName: grant.FileName, MimeType: grant.MimeType, Data: plaintext}, nil
}

func (s *evidenceService) List(ctx context.Context, reportID string) ([]models.EvidenceItem, error) {
	items, err := s.client.ListEvidence(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	return items, nil
}

func (s *evidenceService) Delete(ctx context.Context, evidenceID string) error {
	if err := s.client.DeleteEvidence(ctx, evidenceID); err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	return nil
}
