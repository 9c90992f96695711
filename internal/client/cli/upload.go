package cli

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

// detectMimeType guesses the MIME type from the file extension.
func detectMimeType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: upload <reportID> <file>...", errUsage)
	}
	reportID, paths := args[0], args[1:]

	files := make([]models.LocalFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, models.LocalFile{
			Name:     filepath.Base(p),
			MimeType: detectMimeType(p),
			Path:     p,
		})
	}

	results := a.evidence.Upload(ctx, reportID, files, func(percent int) {
		fmt.Fprintf(a.out, "progress: %d%%\n", percent)
	})

	a.recordUploads(ctx, reportID, files, results)

	failed := 0
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(a.out, "ok     %s -> %s\n", r.FileName, r.EvidenceID)
			continue
		}
		failed++
		fmt.Fprintf(a.out, "failed %s: %v\n", r.FileName, r.Err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// recordUploads appends one journal entry per upload result. Journal
// failures are logged and never fail the upload itself.
func (a *App) recordUploads(ctx context.Context, reportID string, files []models.LocalFile, results []models.UploadResult) {
	if a.journal == nil {
		return
	}

	for i, r := range results {
		e := &models.JournalEntry{
			ReportID:   reportID,
			FileName:   r.FileName,
			EvidenceID: r.EvidenceID,
			Status:     models.JournalUploaded,
		}
		if i < len(files) {
			e.LocalPath = files[i].Path
		}
		if !r.OK() {
			e.Status = models.JournalFailed
			e.Error = r.Err.Error()
		}
		if err := a.journal.Record(ctx, e); err != nil {
			a.logger.Warn(ctx, "journal record failed", "file", r.FileName, "error", err)
		}
	}
}
