// Package services holds the server-side use cases: storing encrypted
// evidence, issuing signed read grants and deleting evidence.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	sc "github.com/dmitrijs2005/evidencevault/internal/server/config"
	"github.com/dmitrijs2005/evidencevault/internal/server/keycustody"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/dmitrijs2005/evidencevault/internal/server/objectstore"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/evidence"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/evidencevault/internal/transcode"
	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

type EvidenceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	custodian   keycustody.Custodian
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

// NewEvidenceService wires the service. db may be nil when repomanager does
// not need a database (in-memory mode); deletes then run without a transaction.
func NewEvidenceService(db *sql.DB, repomanager repomanager.RepositoryManager, store objectstore.Store,
	custodian keycustody.Custodian, config *sc.Config, logger logging.Logger) *EvidenceService {
	return &EvidenceService{
		db:          db,
		repomanager: repomanager,
		store:       store,
		custodian:   custodian,
		config:      config,
		logger:      logger.With("module", "evidence"),
		now:         time.Now,
	}
}

// sanitizePathSegment keeps letters, digits, dot, dash and underscore.
func sanitizePathSegment(s string) string {
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_') {
			return r
		}
		return '_'
	}, s)
	if strings.Trim(s, ".") == "" {
		return "_"
	}
	return s
}

// StoragePath builds the object key for a new upload:
// reports/<reportID>/<unix millis>_<evidence id>_<file name>. The id keeps
// two uploads of the same name within one millisecond apart.
func StoragePath(reportID, id, fileName string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%d_%s_%s",
		sanitizePathSegment(reportID), at.UnixMilli(), sanitizePathSegment(id), sanitizePathSegment(fileName))
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func (s *EvidenceService) validate(in *models.NewEvidence) (ciphertext []byte, err error) {
	if strings.TrimSpace(in.ReportID) == "" {
		return nil, validationError("report id is required")
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, validationError("file name is required")
	}
	if in.Size < 0 {
		return nil, validationError("negative size %d", in.Size)
	}
	if in.Key == "" {
		return nil, validationError("key is required")
	}

	iv, err := transcode.FromBase64(in.IV)
	if err != nil {
		return nil, fmt.Errorf("iv: %w", err)
	}
	if len(iv) != cryptox.IVSize {
		return nil, validationError("iv must be %d bytes, got %d", cryptox.IVSize, len(iv))
	}

	ciphertext, err = transcode.FromBase64(in.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("ciphertext: %w", err)
	}
	if len(ciphertext) < cryptox.TagSize {
		return nil, validationError("ciphertext shorter than the authentication tag")
	}
	return ciphertext, nil
}

// Store writes the ciphertext to object storage and then records its
// metadata. When the metadata insert fails the object is removed again; if
// that removal fails too the error also matches common.ErrCompensation.
func (s *EvidenceService) Store(ctx context.Context, in *models.NewEvidence) (*models.EvidenceFile, error) {
	ciphertext, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	storedKey, err := s.custodian.Wrap(in.Key)
	if err != nil {
		return nil, fmt.Errorf("wrap key: %w", err)
	}

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	now := s.now().UTC()
	id := uuid.New().String()
	row := &models.EvidenceFile{
		ID:               id,
		ReportID:         in.ReportID,
		FileName:         in.FileName,
		MimeType:         mimeType,
		Size:             in.Size,
		StorageKey:       StoragePath(in.ReportID, id, in.FileName, now),
		EncryptedFileKey: storedKey,
		IV:               in.IV,
		UploadedAt:       now,
	}

	if err := s.store.Put(ctx, row.StorageKey, ciphertext, mimeType); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	if err := s.repomanager.Evidence(s.db).Insert(ctx, row); err != nil {
		metaErr := fmt.Errorf("%w: insert evidence: %w", common.ErrMetadata, err)

		if delErr := s.store.Delete(context.WithoutCancel(ctx), row.StorageKey); delErr != nil {
			s.logger.Error(ctx, "orphaned storage object", "storage_key", row.StorageKey, "error", delErr)
			return nil, errors.Join(metaErr, fmt.Errorf("%w: %w", common.ErrCompensation, delErr))
		}
		return nil, metaErr
	}

	s.logger.Info(ctx, "evidence stored", "id", row.ID, "report_id", row.ReportID, "size", row.Size)

	out := *row
	out.EncryptedFileKey = ""
	out.IV = ""
	return &out, nil
}

// List returns the evidence of one report without key material, newest first.
func (s *EvidenceService) List(ctx context.Context, reportID string) ([]*models.EvidenceFile, error) {
	if strings.TrimSpace(reportID) == "" {
		return nil, validationError("report id is required")
	}
	items, err := s.repomanager.Evidence(s.db).ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMetadata, err)
	}
	return items, nil
}

func (s *EvidenceService) get(ctx context.Context, repo evidence.Repository, id string) (*models.EvidenceFile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("evidence id is required")
	}
	row, err := repo.GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("evidence %s: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMetadata, err)
	}
	return row, nil
}

func (s *EvidenceService) ttl(intent models.Intent) (time.Duration, error) {
	switch intent {
	case models.IntentDownload:
		return s.config.DownloadURLValidity, nil
	case models.IntentPreview:
		return s.config.PreviewURLValidity, nil
	default:
		return 0, validationError("unknown intent %q", intent)
	}
}

// Access issues a signed read URL for one evidence item together with the
// material the caller needs to decrypt it. Preview is only granted for images.
func (s *EvidenceService) Access(ctx context.Context, id string, intent models.Intent) (*models.Access, error) {
	ttl, err := s.ttl(intent)
	if err != nil {
		return nil, err
	}

	row, err := s.get(ctx, s.repomanager.Evidence(s.db), id)
	if err != nil {
		return nil, err
	}

	if intent == models.IntentPreview && !strings.HasPrefix(row.MimeType, "image/") {
		return nil, validationError("preview is not available for %s", row.MimeType)
	}

	key, err := s.custodian.Unwrap(row.EncryptedFileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap key: %w", common.ErrorInternal, err)
	}

	expiresAt := s.now().Add(ttl).UTC()
	url, err := s.store.PresignGet(ctx, row.StorageKey, ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	return &models.Access{
		URL:       url,
		ExpiresAt: expiresAt,
		FileName:  row.FileName,
		MimeType:  row.MimeType,
		Key:       key,
		IV:        row.IV,
	}, nil
}

func (s *EvidenceService) withRepo(ctx context.Context, fn func(ctx context.Context, repo evidence.Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Evidence(tx))
	})
}

// Delete removes the stored object first and the metadata row second. If
// the object cannot be removed the row stays, so the item remains visible.
func (s *EvidenceService) Delete(ctx context.Context, id string) error {
	return s.withRepo(ctx, func(ctx context.Context, repo evidence.Repository) error {
		row, err := s.get(ctx, repo, id)
		if err != nil {
			return err
		}

		if err := s.store.Delete(ctx, row.StorageKey); err != nil {
			return fmt.Errorf("%w: %w", common.ErrStorage, err)
		}

		if err := repo.Delete(ctx, id); err != nil {
			s.logger.Warn(ctx, "evidence row left without object", "id", id, "error", err)
			return fmt.Errorf("%w: delete evidence: %w", common.ErrMetadata, err)
		}

		s.logger.Info(ctx, "evidence deleted", "id", id)
		return nil
	})
}
