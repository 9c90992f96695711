// Package cryptox implements the per-file key manager and the AES-256-GCM
// cipher engine used to protect evidence before it leaves the client, plus
// the passphrase-derived master key used for server-side key custody.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of an AES-256 key in bytes.
	KeySize = 32
	// IVSize is the GCM nonce length. Any other size is a programming error.
	IVSize = 12
	// TagSize is the authentication tag GCM appends to every ciphertext.
	TagSize = 16
)

// DeriveMasterKey stretches a passphrase into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// mustIV returns a fresh random nonce of IVSize bytes. A nonce size that
// does not match the AEAD is a bug, so it panics instead of returning.
func mustIV(aead cipher.AEAD) ([]byte, error) {
	if aead.NonceSize() != IVSize {
		panic("cryptox: unexpected GCM nonce size")
	}
	return common.GenerateRandByteArray(IVSize)
}

// Seal encrypts plaintext under a raw key and returns nonce||ciphertext.
// It is used for small records such as wrapped file keys.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce, err := mustIV(aead)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Every failure is reported as common.ErrCannotDecrypt.
func Open(key, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil || len(sealed) < IVSize {
		return nil, common.ErrCannotDecrypt
	}
	plaintext, err := aead.Open(nil, sealed[:IVSize], sealed[IVSize:], nil)
	if err != nil {
		return nil, common.ErrCannotDecrypt
	}
	return plaintext, nil
}
