package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/api"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) endpoint(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return c.baseURL + fmt.Sprintf(format, escaped...)
}

// do sends req and decodes a 2xx JSON body into out (when out is not nil).
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e api.Error
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(body, &e) != nil {
			e.Error = strings.TrimSpace(string(body))
		}
		return mapError(resp.StatusCode, e)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) UploadEvidence(ctx context.Context, reportID string, u *models.EncryptedUpload) (*models.EvidenceItem, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{api.FieldFileName, u.FileName},
		{api.FieldMimeType, u.MimeType},
		{api.FieldSize, strconv.FormatInt(u.Size, 10)},
		{api.FieldCiphertext, u.Ciphertext},
		{api.FieldKey, u.Key},
		{api.FieldIV, u.IV},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/reports/%s/evidence", reportID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out api.Evidence
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	item := toItem(out)
	return &item, nil
}

func (c *HTTPClient) ListEvidence(ctx context.Context, reportID string) ([]models.EvidenceItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/reports/%s/evidence", reportID), nil)
	if err != nil {
		return nil, err
	}

	var out []api.Evidence
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	items := make([]models.EvidenceItem, 0, len(out))
	for _, e := range out {
		items = append(items, toItem(e))
	}
	return items, nil
}

func (c *HTTPClient) GetAccess(ctx context.Context, evidenceID string, intent models.Intent) (*models.AccessGrant, error) {
	u := c.endpoint("/api/evidence/%s/access", evidenceID) + "?intent=" + url.QueryEscape(string(intent))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var out api.Access
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &models.AccessGrant{
		URL:       out.URL,
		ExpiresAt: out.ExpiresAt,
		FileName:  out.FileName,
		MimeType:  out.MimeType,
		Key:       out.Key,
		IV:        out.IV,
	}, nil
}

func (c *HTTPClient) DeleteEvidence(ctx context.Context, evidenceID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint("/api/evidence/%s", evidenceID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func toItem(e api.Evidence) models.EvidenceItem {
	return models.EvidenceItem{
		ID:          e.ID,
		ReportID:    e.ReportID,
		FileName:    e.FileName,
		MimeType:    e.MimeType,
		Size:        e.Size,
		StoragePath: e.StoragePath,
		UploadedAt:  e.UploadedAt,
	}
}
