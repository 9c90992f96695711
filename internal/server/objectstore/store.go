// Package objectstore is the ciphertext storage collaborator: it writes,
// deletes and grants time-limited read access to objects by path. It never
// interprets the bytes it stores.
package objectstore

import (
	"context"
	"time"
)

// Store is implemented by S3Store and Memory.
type Store interface {
	// Put writes data at key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL that allows reading key for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
