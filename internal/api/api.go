// Package api holds the JSON and form shapes exchanged between the evidence
// client and server.
package api

import "time"

// Multipart form fields of an upload request. Binary values are base64 text.
const (
	FieldFileName   = "file_name"
	FieldMimeType   = "mime_type"
	FieldSize       = "size"
	FieldCiphertext = "ciphertext"
	FieldKey        = "key"
	FieldIV         = "iv"
)

// Error kinds carried in Error.Kind.
const (
	KindValidation   = "validation"
	KindNotFound     = "not_found"
	KindStorage      = "storage"
	KindMetadata     = "metadata"
	KindCompensation = "compensation"
	KindInternal     = "internal"
)

type Evidence struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	FileName    string    `json:"file_name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Access is a signed read grant plus the decryption material.
type Access struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Key       string    `json:"key"`
	IV        string    `json:"iv"`
}

type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
