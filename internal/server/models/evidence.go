// Package models defines server-side data models persisted in the database.
package models

import "time"

// EvidenceFile is the metadata row for one encrypted evidence object. The
// ciphertext itself lives in object storage at StorageKey.
type EvidenceFile struct {
	ID       string
	ReportID string
	FileName string
	MimeType string
	// Size is the declared plaintext size in bytes.
	Size int64
	// StorageKey is the object-storage key (path) of the ciphertext blob.
	StorageKey string
	// EncryptedFileKey is the exported per-file key as stored: verbatim JWK
	// text or its envelope-wrapped form, depending on key custody.
	EncryptedFileKey string
	// IV is the base64 encoded 12-byte GCM nonce.
	IV         string
	UploadedAt time.Time
}

// NewEvidence is what a client sends to store one encrypted file.
type NewEvidence struct {
	ReportID   string
	FileName   string
	MimeType   string
	Size       int64
	Ciphertext string
	Key        string
	IV         string
}

// Intent tells why a signed read URL is requested; it selects the URL lifetime.
type Intent string

const (
	IntentDownload Intent = "download"
	IntentPreview  Intent = "preview"
)

// Access is a short-lived grant to read one ciphertext plus everything
// needed to decrypt it.
type Access struct {
	URL       string
	ExpiresAt time.Time
	FileName  string
	MimeType  string
	Key       string
	IV        string
}
