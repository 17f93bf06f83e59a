//go:build unit
// +build unit

package cryptography

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"testing"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

func setupOKPProcessor(t *testing.T) cryptoalg.OKPProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewOKPProcessor(logger)
	require.NoError(t, err)
	return processor
}

func TestOKPProcessorSignatures(t *testing.T) {
	processor := setupOKPProcessor(t)
	data := []byte("signed payload")

	t.Run("Ed25519", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveEd25519)
		require.NoError(t, err)
		key, ok := priv.(ed25519.PrivateKey)
		require.True(t, ok)

		signature, err := processor.Sign(priv, data)
		assert.NoError(t, err)
		assert.Equal(t, ed25519.SignatureSize, len(signature))

		valid, err := processor.Verify(key.Public().(ed25519.PublicKey), signature, data)
		assert.NoError(t, err)
		assert.True(t, valid)

		signature[0] ^= 0x01
		valid, err = processor.Verify(key.Public().(ed25519.PublicKey), signature, data)
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("Ed448", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveEd448)
		require.NoError(t, err)
		key, ok := priv.(ed448.PrivateKey)
		require.True(t, ok)

		signature, err := processor.Sign(priv, data)
		assert.NoError(t, err)
		assert.Equal(t, ed448.SignatureSize, len(signature))

		valid, err := processor.Verify(key.Public().(ed448.PublicKey), signature, data)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("WrongLengthSignature", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveEd25519)
		require.NoError(t, err)
		key := priv.(ed25519.PrivateKey)

		valid, err := processor.Verify(key.Public().(ed25519.PublicKey), []byte("short"), data)
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("MontgomeryKeysCannotSign", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveX25519)
		require.NoError(t, err)

		_, err = processor.Sign(priv, data)
		assert.Error(t, err)
	})
}

func TestOKPProcessorDeriveBits(t *testing.T) {
	processor := setupOKPProcessor(t)

	t.Run("X25519AgreementIsSymmetric", func(t *testing.T) {
		privA, err := processor.GenerateKeys(webcrypto.CurveX25519)
		require.NoError(t, err)
		privB, err := processor.GenerateKeys(webcrypto.CurveX25519)
		require.NoError(t, err)

		keyA := privA.(*ecdh.PrivateKey)
		keyB := privB.(*ecdh.PrivateKey)

		sharedA, err := processor.DeriveBits(privA, keyB.PublicKey(), 256)
		assert.NoError(t, err)
		sharedB, err := processor.DeriveBits(privB, keyA.PublicKey(), 256)
		assert.NoError(t, err)
		assert.Equal(t, sharedA, sharedB)
		assert.Equal(t, 32, len(sharedA))
	})

	t.Run("X448AgreementIsSymmetric", func(t *testing.T) {
		privA, err := processor.GenerateKeys(webcrypto.CurveX448)
		require.NoError(t, err)
		privB, err := processor.GenerateKeys(webcrypto.CurveX448)
		require.NoError(t, err)

		pubA, err := codec.X448PublicFromPrivate(privA.(cryptoalg.X448PrivateKey))
		require.NoError(t, err)
		pubB, err := codec.X448PublicFromPrivate(privB.(cryptoalg.X448PrivateKey))
		require.NoError(t, err)

		sharedA, err := processor.DeriveBits(privA, pubB, 448)
		assert.NoError(t, err)
		sharedB, err := processor.DeriveBits(privB, pubA, 448)
		assert.NoError(t, err)
		assert.Equal(t, sharedA, sharedB)
		assert.Equal(t, 56, len(sharedA))
	})

	t.Run("X448RejectsLowOrderPeer", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveX448)
		require.NoError(t, err)

		zeroPeer := make(cryptoalg.X448PublicKey, 56)
		_, err = processor.DeriveBits(priv, zeroPeer, 448)
		assert.Error(t, err)
	})

	t.Run("EdwardsKeysCannotDerive", func(t *testing.T) {
		priv, err := processor.GenerateKeys(webcrypto.CurveEd25519)
		require.NoError(t, err)

		_, err = processor.DeriveBits(priv, nil, 256)
		assert.Error(t, err)
	})

	t.Run("TruncatesOutput", func(t *testing.T) {
		privA, err := processor.GenerateKeys(webcrypto.CurveX25519)
		require.NoError(t, err)
		privB, err := processor.GenerateKeys(webcrypto.CurveX25519)
		require.NoError(t, err)

		bits, err := processor.DeriveBits(privA, privB.(*ecdh.PrivateKey).PublicKey(), 128)
		assert.NoError(t, err)
		assert.Equal(t, 16, len(bits))
	})
}
