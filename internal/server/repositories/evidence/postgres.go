// Package evidence stores evidence metadata rows in PostgreSQL.
package evidence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a new evidence row. The database assigns uploaded_at when
// the model leaves it zero; the stored value is read back into file.
func (r *PostgresRepository) Insert(ctx context.Context, file *models.EvidenceFile) error {
	query := `
		INSERT INTO evidence_files (id, report_id, file_name, mime_type, size, storage_key, encrypted_file_key, iv, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
		RETURNING uploaded_at
	`
	var uploadedAt sql.NullTime
	if !file.UploadedAt.IsZero() {
		uploadedAt = sql.NullTime{Time: file.UploadedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.ReportID, file.FileName, file.MimeType, file.Size,
		file.StorageKey, file.EncryptedFileKey, file.IV, uploadedAt,
	).Scan(&file.UploadedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the full row, key material included.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.EvidenceFile, error) {
	query := `SELECT id, report_id, file_name, mime_type, size, storage_key, encrypted_file_key, iv, uploaded_at
		FROM evidence_files WHERE id=$1`

	result := &models.EvidenceFile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.ReportID, &result.FileName, &result.MimeType, &result.Size,
		&result.StorageKey, &result.EncryptedFileKey, &result.IV, &result.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select evidence: %w", err)
	}
	return result, nil
}

// ListByReport returns the report's rows newest first, without key material.
func (r *PostgresRepository) ListByReport(ctx context.Context, reportID string) ([]*models.EvidenceFile, error) {
	query := `SELECT id, report_id, file_name, mime_type, size, storage_key, uploaded_at
		FROM evidence_files WHERE report_id=$1 ORDER BY uploaded_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to select evidence: %w", err)
	}
	defer rows.Close()

	var result []*models.EvidenceFile
	for rows.Next() {
		var item models.EvidenceFile
		if err := rows.Scan(&item.ID, &item.ReportID, &item.FileName, &item.MimeType, &item.Size, &item.StorageKey, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the row for id. Exactly one row must be affected.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM evidence_files WHERE id=$1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete evidence: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch ra {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
}
