// Package models defines the client-side view of evidence.
package models

import (
	"strings"
	"time"
)

// Intent selects how long a read grant stays valid.
type Intent string

const (
	IntentDownload Intent = "download"
	IntentPreview  Intent = "preview"
)

// LocalFile is one file selected for upload. Data wins over Path when set.
type LocalFile struct {
	Name     string
	MimeType string
	Path     string
	Data     []byte
}

// UploadResult reports the outcome for one LocalFile of a batch.
type UploadResult struct {
	FileName   string
	EvidenceID string
	Err        error
}

func (r UploadResult) OK() bool { return r.Err == nil }

// EncryptedUpload is the transport form of one encrypted file: ciphertext
// and IV as base64 text and the key as exported JWK text.
type EncryptedUpload struct {
	FileName   string
	MimeType   string
	Size       int64
	Ciphertext string
	Key        string
	IV         string
}

// EvidenceItem is a listed evidence file. It carries no key material.
type EvidenceItem struct {
	ID          string
	ReportID    string
	FileName    string
	MimeType    string
	Size        int64
	StoragePath string
	UploadedAt  time.Time
}

// AccessGrant is a signed read URL plus the decryption material.
type AccessGrant struct {
	URL       string
	ExpiresAt time.Time
	FileName  string
	MimeType  string
	Key       string
	IV        string
}

// Plaintext is a decrypted evidence file ready to be saved or shown.
type Plaintext struct {
	FileName string
	MimeType string
	Data     []byte
}

// IsImage reports whether mimeType can be previewed inline.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// Journal statuses.
const (
	JournalUploaded = "uploaded"
	JournalFailed   = "failed"
)

// JournalEntry is one line of the local upload journal. It never holds key
// material; it only remembers what was sent where.
type JournalEntry struct {
	ID         int64
	ReportID   string
	FileName   string
	LocalPath  string
	EvidenceID string
	Status     string
	Error      string
	CreatedAt  time.Time
	Deleted    bool
}
