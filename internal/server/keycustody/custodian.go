// Package keycustody decides how exported per-file keys are kept in the
// metadata store.
package keycustody

import (
	"strings"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/transcode"
)

// Custodian turns an exported key into its stored form and back.
type Custodian interface {
	Wrap(exportedKey string) (string, error)
	Unwrap(stored string) (string, error)
}

// Plain stores keys verbatim.
type Plain struct{}

func (Plain) Wrap(exportedKey string) (string, error) { return exportedKey, nil }
func (Plain) Unwrap(stored string) (string, error)    { return stored, nil }

const envelopePrefix = "env1:"

// Envelope encrypts keys with a master key derived from a passphrase.
type Envelope struct {
	kek []byte
}

// NewEnvelope derives the key-encryption key with argon2id.
func NewEnvelope(passphrase, salt string) *Envelope {
	return &Envelope{kek: cryptox.DeriveMasterKey([]byte(passphrase), []byte(salt))}
}

func (e *Envelope) Wrap(exportedKey string) (string, error) {
	sealed, err := cryptox.Seal(e.kek, []byte(exportedKey))
	if err != nil {
		return "", err
	}
	return envelopePrefix + transcode.ToBase64(sealed), nil
}

// Unwrap returns values without the envelope prefix unchanged, so rows
// written before envelope custody was enabled stay readable.
func (e *Envelope) Unwrap(stored string) (string, error) {
	rest, ok := strings.CutPrefix(stored, envelopePrefix)
	if !ok {
		return stored, nil
	}
	sealed, err := transcode.FromBase64(rest)
	if err != nil {
		return "", common.ErrCannotDecrypt
	}
	plain, err := cryptox.Open(e.kek, sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// New picks Envelope when a passphrase is configured and Plain otherwise.
func New(passphrase, salt string) Custodian {
	if passphrase == "" {
		return Plain{}
	}
	return NewEnvelope(passphrase, salt)
}
