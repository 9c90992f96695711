package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// Encrypt seals plaintext with AES-256-GCM under key and a fresh random IV.
//
// The returned ciphertext is len(plaintext)+TagSize bytes with the tag
// appended. The IV is not recoverable from the ciphertext and must be stored
// by the caller. Each file key is meant for exactly one Encrypt call.
func Encrypt(plaintext []byte, key *Key) (ciphertext, iv []byte, err error) {
	if key == nil || len(key.material) != KeySize {
		return nil, nil, fmt.Errorf("%w: empty key", common.ErrKeyFormat)
	}
	if !key.allows(usageEncrypt) {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrKeyFormat, errKeyUsage)
	}

	aead, err := newGCM(key.material)
	if err != nil {
		return nil, nil, err
	}

	iv, err = mustIV(aead)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aead.Seal(nil, iv, plaintext, nil)
	return ciphertext, iv, nil
}

// Decrypt opens ciphertext with key and iv. A wrong key, a wrong IV or any
// altered byte of ciphertext or tag all produce common.ErrCannotDecrypt and
// no plaintext.
func Decrypt(ciphertext []byte, key *Key, iv []byte) ([]byte, error) {
	if key == nil || len(key.material) != KeySize || !key.allows(usageDecrypt) || len(iv) != IVSize {
		return nil, common.ErrCannotDecrypt
	}

	aead, err := newGCM(key.material)
	if err != nil {
		return nil, common.ErrCannotDecrypt
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, common.ErrCannotDecrypt
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
