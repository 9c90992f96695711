package common

import (
	"crypto/rand"
	"fmt"
)

// GenerateRandByteArray returns size bytes read from crypto/rand.
// A failing random source is reported as ErrEnvironment.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvironment, err)
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
