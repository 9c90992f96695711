// Package common defines the sentinel errors and small helpers shared by the
// client and server sides of the evidence vault. Callers should use errors.Is
// to match these values; layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrEnvironment means the platform cannot provide cryptographic
	// randomness. It is fatal and not retryable.
	ErrEnvironment = errors.New("cryptographic environment unavailable")

	// ErrStorage wraps object storage write/read/delete failures.
	ErrStorage = errors.New("storage error")

	// ErrMetadata wraps metadata store failures.
	ErrMetadata = errors.New("metadata error")

	// ErrCompensation is joined with ErrMetadata when removing an orphaned
	// storage object failed as well. Such an object needs manual cleanup.
	ErrCompensation = errors.New("compensating delete failed")

	// ErrCannotDecrypt is the single opaque decryption failure. It never says
	// whether the key, the IV or the ciphertext was at fault.
	ErrCannotDecrypt = errors.New("cannot decrypt")

	// ErrValidation rejects a request before any network or crypto work.
	ErrValidation = errors.New("validation error")

	// ErrKeyFormat is returned for malformed or incompatible serialized keys.
	ErrKeyFormat = errors.New("invalid key format")
)
