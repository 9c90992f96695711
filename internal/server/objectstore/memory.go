package objectstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// ErrObjectNotFound is returned by Memory when presigning or serving an unknown key.
var ErrObjectNotFound = errors.New("object not found")

type memoryObject struct {
	data        []byte
	contentType string
}

// Memory is an in-process Store. It serves its own signed URLs through
// ServeHTTP under prefix, so it can stand in for S3 in tests and local runs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	secret  []byte
	baseURL string
	prefix  string
	now     func() time.Time
}

// NewMemory creates an empty store whose signed URLs start with
// baseURL+prefix. baseURL may be set later with SetBaseURL.
func NewMemory(baseURL, prefix string) (*Memory, error) {
	secret, err := common.GenerateRandByteArray(32)
	if err != nil {
		return nil, err
	}
	return &Memory{
		objects: make(map[string]memoryObject),
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/") + "/",
		now:     time.Now,
	}, nil
}

// SetBaseURL changes the scheme://host part of issued URLs.
func (m *Memory) SetBaseURL(baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = strings.TrimRight(baseURL, "/")
}

// Prefix is the path prefix ServeHTTP expects, e.g. "/objects/".
func (m *Memory) Prefix() string { return m.prefix }

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// like S3 DeleteObject, removing an absent key succeeds
	delete(m.objects, key)
	return nil
}

// Get returns a copy of the stored object.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), o.data...), o.contentType, true
}

// Len reports how many objects are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *Memory) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, m.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *Memory) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("presign %s: %w", key, ErrObjectNotFound)
	}

	expires := m.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", m.sign(key, expires))

	return m.baseURL + m.prefix + url.PathEscape(key) + "?" + q.Encode(), nil
}

// ServeHTTP answers GET requests for URLs issued by PresignGet.
func (m *Memory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	escaped := strings.TrimPrefix(r.URL.EscapedPath(), m.prefix)
	key, err := url.PathUnescape(escaped)
	if err != nil {
		http.Error(w, "bad key", http.StatusBadRequest)
		return
	}

	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		http.Error(w, "missing expiry", http.StatusForbidden)
		return
	}
	want := m.sign(key, expires)
	if !hmac.Equal([]byte(want), []byte(r.URL.Query().Get("signature"))) {
		http.Error(w, "bad signature", http.StatusForbidden)
		return
	}
	if m.now().Unix() > expires {
		http.Error(w, "expired", http.StatusForbidden)
		return
	}

	data, contentType, ok := m.Get(key)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
