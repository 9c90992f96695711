package keycustody

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwkText = `{"kty":"oct","k":"AAAA","alg":"A256GCM","ext":true,"key_ops":["encrypt","decrypt"]}`

func TestNew_PicksCustodian(t *testing.T) {
	_, ok := New("", "salt").(Plain)
	assert.True(t, ok)

	_, ok = New("pass", "salt").(*Envelope)
	assert.True(t, ok)
}

func TestPlain_Verbatim(t *testing.T) {
	var c Plain
	w, err := c.Wrap(jwkText)
	require.NoError(t, err)
	assert.Equal(t, jwkText, w)

	u, err := c.Unwrap(w)
	require.NoError(t, err)
	assert.Equal(t, jwkText, u)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	e := NewEnvelope("pass", "salt")

	w, err := e.Wrap(jwkText)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(w, envelopePrefix))
	assert.NotContains(t, w, "A256GCM")

	w2, err := e.Wrap(jwkText)
	require.NoError(t, err)
	assert.NotEqual(t, w, w2, "nonce must differ per wrap")

	u, err := e.Unwrap(w)
	require.NoError(t, err)
	assert.Equal(t, jwkText, u)
}

func TestEnvelope_LegacyValuePassesThrough(t *testing.T) {
	e := NewEnvelope("pass", "salt")
	u, err := e.Unwrap(jwkText)
	require.NoError(t, err)
	assert.Equal(t, jwkText, u)
}

func TestEnvelope_WrongPassphrase(t *testing.T) {
	w, err := NewEnvelope("pass", "salt").Wrap(jwkText)
	require.NoError(t, err)

	_, err = NewEnvelope("other", "salt").Unwrap(w)
	assert.ErrorIs(t, err, common.ErrCannotDecrypt)

	_, err = NewEnvelope("pass", "salt").Unwrap(envelopePrefix + "!!notbase64")
	assert.ErrorIs(t, err, common.ErrCannotDecrypt)
}
