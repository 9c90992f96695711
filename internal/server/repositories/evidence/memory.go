package evidence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

// MemoryRepository is a process-local Repository used by tests and by the
// server when it runs without a database.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]models.EvidenceFile
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]models.EvidenceFile), now: time.Now}
}

func (r *MemoryRepository) Insert(ctx context.Context, file *models.EvidenceFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[file.ID]; ok {
		return common.ErrorInternal
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = r.now().UTC()
	}
	r.rows[file.ID] = *file
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.EvidenceFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *MemoryRepository) ListByReport(ctx context.Context, reportID string) ([]*models.EvidenceFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.EvidenceFile
	for _, row := range r.rows {
		if row.ReportID != reportID {
			continue
		}
		row.EncryptedFileKey = ""
		row.IV = ""
		result = append(result, &row)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}
