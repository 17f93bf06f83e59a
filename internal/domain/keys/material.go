package keys

import (
	"encoding/json"
	"encoding/pem"
	"fmt"
	"sync"
)

// KeyClass distinguishes the three kinds of keys a handle can reference.
type KeyClass string

// Key class constants
const (
	ClassSecret  KeyClass = "secret"
	ClassPublic  KeyClass = "public"
	ClassPrivate KeyClass = "private"
)

// Algorithm family constants used as the key-material variant tag
const (
	FamilyAES    = "AES"
	FamilyDES    = "DES"
	FamilyHMAC   = "HMAC"
	FamilyHKDF   = "HKDF"
	FamilyPBKDF2 = "PBKDF2"
	FamilyRSA    = "RSA"
	FamilyEC     = "EC"
	FamilyOKP    = "OKP"
)

// PEM block type constants for the derived PEM cache
const (
	pemTypePrivateKey = "PRIVATE KEY"
	pemTypePublicKey  = "PUBLIC KEY"
)

// KeyMaterial is the internal representation of actual key bytes. Symmetric
// material carries the raw secret in Raw; asymmetric material carries DER
// encoded PKCS#8 (private) or SPKI (public) bytes in DER. Material is only
// reachable through the registry and is never attached to the public fields
// of a handle.
type KeyMaterial struct {
	Class       KeyClass   `json:"class"`
	Family      string     `json:"family"`
	Raw         []byte     `json:"raw,omitempty"`
	DER         []byte     `json:"der,omitempty"`
	Algorithm   *Algorithm `json:"algorithm,omitempty"`
	Extractable bool       `json:"extractable"`
	Usages      []string   `json:"usages"`
	Kty         string     `json:"kty,omitempty"`

	pemOnce sync.Once
	pem     string
}

// NewSecretKeyMaterial builds symmetric key material for the AES, DES, HMAC
// and KDF families.
func NewSecretKeyMaterial(family string, raw []byte, alg *Algorithm, extractable bool, usages []string) *KeyMaterial {
	return &KeyMaterial{
		Class:       ClassSecret,
		Family:      family,
		Raw:         raw,
		Algorithm:   alg.KeyParams(),
		Extractable: extractable,
		Usages:      append([]string(nil), usages...),
		Kty:         "oct",
	}
}

// NewAsymmetricKeyMaterial builds asymmetric key material from DER bytes.
// Private keys are expected as PKCS#8, public keys as SPKI. Public keys are
// always extractable.
func NewAsymmetricKeyMaterial(family string, class KeyClass, der []byte, alg *Algorithm, extractable bool, usages []string) (*KeyMaterial, error) {
	if class != ClassPublic && class != ClassPrivate {
		return nil, fmt.Errorf("asymmetric key material requires a public or private class, got %q", class)
	}
	if class == ClassPublic {
		extractable = true
	}
	kty := family
	return &KeyMaterial{
		Class:       class,
		Family:      family,
		DER:         der,
		Algorithm:   alg.KeyParams(),
		Extractable: extractable,
		Usages:      append([]string(nil), usages...),
		Kty:         kty,
	}, nil
}

// IsSymmetric reports whether the material holds a raw shared secret.
func (m *KeyMaterial) IsSymmetric() bool {
	return m.Class == ClassSecret
}

// PEM returns the PEM rendering of the DER bytes for engine calls that want
// textual key input. The rendering is computed once and cached; redundant
// concurrent computation is avoided but would be harmless.
func (m *KeyMaterial) PEM() (string, error) {
	if m.DER == nil {
		return "", fmt.Errorf("no DER structure present for %s %s key", m.Family, m.Class)
	}
	m.pemOnce.Do(func() {
		blockType := pemTypePublicKey
		if m.Class == ClassPrivate {
			blockType = pemTypePrivateKey
		}
		m.pem = string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: m.DER}))
	})
	return m.pem, nil
}

// Marshal serializes the material for the handle snapshot and for the
// persistent repository. The PEM cache is derived state and is not carried.
func (m *KeyMaterial) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize key material: %w", err)
	}
	return data, nil
}

// UnmarshalKeyMaterial restores material serialized with Marshal.
func UnmarshalKeyMaterial(data []byte) (*KeyMaterial, error) {
	var m KeyMaterial
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to deserialize key material: %w", err)
	}
	return &m, nil
}
