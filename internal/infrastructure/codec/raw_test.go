//go:build unit
// +build unit

package codec

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

func TestRawPublicKeyRoundTrips(t *testing.T) {
	t.Run("NISTPoint", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		raw, err := MarshalRawPublicKey(&key.PublicKey)
		assert.NoError(t, err)
		assert.Equal(t, 65, len(raw))
		assert.Equal(t, byte(0x04), raw[0])

		parsed, err := ParseRawPublicKey(raw, webcrypto.CurveP256)
		assert.NoError(t, err)

		parsedKey, ok := parsed.(*ecdsa.PublicKey)
		require.True(t, ok)
		assert.Equal(t, 0, key.X.Cmp(parsedKey.X))
		assert.Equal(t, 0, key.Y.Cmp(parsedKey.Y))
	})

	t.Run("Ed25519", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		raw, err := MarshalRawPublicKey(pub)
		assert.NoError(t, err)
		assert.Equal(t, ed25519.PublicKeySize, len(raw))

		parsed, err := ParseRawPublicKey(raw, webcrypto.CurveEd25519)
		assert.NoError(t, err)
		assert.Equal(t, pub, parsed.(ed25519.PublicKey))
	})

	t.Run("RejectsInvalidPoint", func(t *testing.T) {
		bad := make([]byte, 65)
		bad[0] = 0x04

		_, err := ParseRawPublicKey(bad, webcrypto.CurveP256)
		assert.Error(t, err)
	})

	t.Run("RejectsWrongLength", func(t *testing.T) {
		_, err := ParseRawPublicKey(make([]byte, 31), webcrypto.CurveEd25519)
		assert.Error(t, err)

		_, err = ParseRawPublicKey(make([]byte, 55), webcrypto.CurveX448)
		assert.Error(t, err)
	})

	t.Run("RejectsUnknownCurve", func(t *testing.T) {
		_, err := ParseRawPublicKey(make([]byte, 32), "P-123")
		assert.Error(t, err)
	})

	t.Run("RejectsUnsupportedType", func(t *testing.T) {
		_, err := MarshalRawPublicKey(42)
		assert.Error(t, err)
	})
}
