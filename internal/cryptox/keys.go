package cryptox

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

const (
	// AlgorithmA256GCM is the JWK algorithm name bound to every file key.
	AlgorithmA256GCM = "A256GCM"

	keyTypeOctet = "oct"
	usageEncrypt = "encrypt"
	usageDecrypt = "decrypt"
)

// Key is a per-file symmetric key. It is generated once per upload,
// exported for storage right away and never regenerated.
type Key struct {
	Algorithm   string
	Extractable bool
	Usages      []string
	material    []byte
}

// jwk is the exported, self-describing form of a Key. The algorithm and the
// key length travel with the material, so ImportKey can reject mismatches.
type jwk struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops"`
}

// GenerateKey creates a new random AES-256-GCM key that can be exported and
// used for both encryption and decryption. It fails only when the platform
// cannot supply randomness; that error wraps common.ErrEnvironment.
func GenerateKey() (*Key, error) {
	material, err := common.GenerateRandByteArray(KeySize)
	if err != nil {
		return nil, err
	}
	return &Key{
		Algorithm:   AlgorithmA256GCM,
		Extractable: true,
		Usages:      []string{usageEncrypt, usageDecrypt},
		material:    material,
	}, nil
}

// ExportKey serializes k to JSON Web Key text suitable for a text column.
func ExportKey(k *Key) (string, error) {
	if k == nil || len(k.material) != KeySize {
		return "", fmt.Errorf("%w: empty key", common.ErrKeyFormat)
	}
	if !k.Extractable {
		return "", fmt.Errorf("%w: key is not extractable", common.ErrKeyFormat)
	}

	b, err := json.Marshal(jwk{
		Kty:    keyTypeOctet,
		K:      base64.RawURLEncoding.EncodeToString(k.material),
		Alg:    k.Algorithm,
		Ext:    true,
		KeyOps: k.Usages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrKeyFormat, err)
	}
	return string(b), nil
}

// ImportKey rebuilds a Key from its exported form and binds it to
// AES-256-GCM again. Malformed input or another algorithm yields an error
// wrapping common.ErrKeyFormat.
func ImportKey(serialized string) (*Key, error) {
	var j jwk
	if err := json.Unmarshal([]byte(serialized), &j); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKeyFormat, err)
	}
	if j.Kty != keyTypeOctet {
		return nil, fmt.Errorf("%w: unsupported key type %q", common.ErrKeyFormat, j.Kty)
	}
	if j.Alg != AlgorithmA256GCM {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrKeyFormat, j.Alg)
	}

	material, err := base64.RawURLEncoding.DecodeString(j.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKeyFormat, err)
	}
	if len(material) != KeySize {
		return nil, fmt.Errorf("%w: key length %d", common.ErrKeyFormat, len(material))
	}

	usages := j.KeyOps
	if len(usages) == 0 {
		usages = []string{usageEncrypt, usageDecrypt}
	}
	for _, u := range usages {
		if u != usageEncrypt && u != usageDecrypt {
			return nil, fmt.Errorf("%w: unsupported key usage %q", common.ErrKeyFormat, u)
		}
	}

	return &Key{
		Algorithm:   AlgorithmA256GCM,
		Extractable: j.Ext,
		Usages:      usages,
		material:    material,
	}, nil
}

func (k *Key) allows(usage string) bool {
	return slices.Contains(k.Usages, usage)
}

var errKeyUsage = errors.New("key usage not permitted")
