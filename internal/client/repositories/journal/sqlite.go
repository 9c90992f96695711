package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, e *models.JournalEntry) error {

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `insert into upload_journal (report_id, file_name, local_path, evidence_id, status, error, created_at)
			values (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, e.ReportID, e.FileName, e.LocalPath, e.EvidenceID, e.Status, e.Error, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id

	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, reportID string) ([]*models.JournalEntry, error) {

	query := `select id, report_id, file_name, local_path, evidence_id, status, error, created_at, deleted
			from upload_journal where (? = '' or report_id = ?) order by created_at, id`
	rows, err := r.db.QueryContext(ctx, query, reportID, reportID)
	if err != nil {
		return nil, fmt.Errorf("error selecting journal: %w", err)
	}
	defer rows.Close()

	var result []*models.JournalEntry

	for rows.Next() {
		var item = &models.JournalEntry{}
		var createdAt int64
		err := rows.Scan(&item.ID, &item.ReportID, &item.FileName, &item.LocalPath, &item.EvidenceID,
			&item.Status, &item.Error, &createdAt, &item.Deleted)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = time.UnixMilli(createdAt)
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, evidenceID string) error {

	query := `update upload_journal set deleted=1 where evidence_id=? and evidence_id<>'' and deleted=0`
	result, err := r.db.ExecContext(ctx, query, evidenceID)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry deleted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
