// Package transcode converts between raw bytes and the base64 text used to
// move ciphertext and IVs through text-only channels such as multipart form
// fields and JSON bodies.
package transcode

import (
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// ToBase64 encodes buf with the standard padded alphabet.
func ToBase64(buf []byte) string {
	return base64.StdEncoding.EncodeToString(buf)
}

// FromBase64 decodes s back to bytes. The result is never nil, so an empty
// string yields an empty buffer. Invalid input wraps common.ErrValidation.
func FromBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", common.ErrValidation, err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}
