package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/evidencevault/internal/api"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, api.Error{Error: msg, Kind: kind})
}

// classify maps service errors to a status code and an error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrKeyFormat):
		return http.StatusBadRequest, api.KindValidation
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, api.KindNotFound
	case errors.Is(err, common.ErrCompensation):
		return http.StatusInternalServerError, api.KindCompensation
	case errors.Is(err, common.ErrMetadata):
		return http.StatusInternalServerError, api.KindMetadata
	case errors.Is(err, common.ErrStorage):
		return http.StatusBadGateway, api.KindStorage
	default:
		return http.StatusInternalServerError, api.KindInternal
	}
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	msg := err.Error()
	if kind == api.KindInternal {
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeError(w, status, kind, msg)
}

func toEvidence(f *models.EvidenceFile) api.Evidence {
	return api.Evidence{
		ID:          f.ID,
		ReportID:    f.ReportID,
		FileName:    f.FileName,
		MimeType:    f.MimeType,
		Size:        f.Size,
		StoragePath: f.StorageKey,
		UploadedAt:  f.UploadedAt,
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "evidencevault",
	})
}

// handleUpload handles POST /api/reports/{reportID}/evidence.
func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, api.KindValidation, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, api.KindValidation, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var size int64
	if v := r.FormValue(api.FieldSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, api.KindValidation, "size must be an integer")
			return
		}
		size = n
	}

	in := &models.NewEvidence{
		ReportID:   r.PathValue("reportID"),
		FileName:   r.FormValue(api.FieldFileName),
		MimeType:   r.FormValue(api.FieldMimeType),
		Size:       size,
		Ciphertext: r.FormValue(api.FieldCiphertext),
		Key:        r.FormValue(api.FieldKey),
		IV:         r.FormValue(api.FieldIV),
	}

	out, err := s.evidence.Store(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEvidence(out))
}

// handleList handles GET /api/reports/{reportID}/evidence.
func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.evidence.List(r.Context(), r.PathValue("reportID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]api.Evidence, 0, len(items))
	for _, it := range items {
		out = append(out, toEvidence(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAccess handles GET /api/evidence/{id}/access?intent=download|preview.
func (s *HTTPServer) handleAccess(w http.ResponseWriter, r *http.Request) {
	intent := models.Intent(r.URL.Query().Get("intent"))
	if intent == "" {
		intent = models.IntentDownload
	}

	acc, err := s.evidence.Access(r.Context(), r.PathValue("id"), intent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, api.Access{
		URL:       acc.URL,
		ExpiresAt: acc.ExpiresAt,
		FileName:  acc.FileName,
		MimeType:  acc.MimeType,
		Key:       acc.Key,
		IV:        acc.IV,
	})
}

// handleDelete handles DELETE /api/evidence/{id}.
func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.evidence.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
