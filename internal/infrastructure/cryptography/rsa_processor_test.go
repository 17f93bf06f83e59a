//go:build unit
// +build unit

package cryptography

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

func setupRSAProcessor(t *testing.T) cryptoalg.RSAProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewRSAProcessor(logger)
	require.NoError(t, err)
	return processor
}

func TestRSAProcessorGenerateKeys(t *testing.T) {
	processor := setupRSAProcessor(t)

	t.Run("DefaultExponent", func(t *testing.T) {
		privateKey, err := processor.GenerateKeys(2048, 65537)
		assert.NoError(t, err)
		assert.Equal(t, 2048, privateKey.N.BitLen())
		assert.Equal(t, 65537, privateKey.E)
	})

	t.Run("ExponentThree", func(t *testing.T) {
		privateKey, err := processor.GenerateKeys(1024, 3)
		assert.NoError(t, err)
		assert.Equal(t, 1024, privateKey.N.BitLen())
		assert.Equal(t, 3, privateKey.E)
		assert.NoError(t, privateKey.Validate())
	})

	t.Run("RejectsUnsupportedModulus", func(t *testing.T) {
		_, err := processor.GenerateKeys(1536, 65537)
		assert.Error(t, err)
	})

	t.Run("RejectsUnsupportedExponent", func(t *testing.T) {
		_, err := processor.GenerateKeys(2048, 17)
		assert.Error(t, err)
	})
}

func TestRSAProcessorSignatures(t *testing.T) {
	processor := setupRSAProcessor(t)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	data := []byte("signed payload")

	t.Run("PKCS1v15RoundTrip", func(t *testing.T) {
		signature, err := processor.SignPKCS1v15(privateKey, webcrypto.AlgSHA256, data)
		assert.NoError(t, err)
		assert.Equal(t, 256, len(signature))

		valid, err := processor.VerifyPKCS1v15(&privateKey.PublicKey, webcrypto.AlgSHA256, signature, data)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("PKCS1v15RejectsModifiedData", func(t *testing.T) {
		signature, err := processor.SignPKCS1v15(privateKey, webcrypto.AlgSHA256, data)
		require.NoError(t, err)

		valid, err := processor.VerifyPKCS1v15(&privateKey.PublicKey, webcrypto.AlgSHA256, signature, []byte("other payload"))
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("PSSRoundTrip", func(t *testing.T) {
		signature, err := processor.SignPSS(privateKey, webcrypto.AlgSHA256, 32, data)
		assert.NoError(t, err)

		valid, err := processor.VerifyPSS(&privateKey.PublicKey, webcrypto.AlgSHA256, 32, signature, data)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("PSSRejectsTamperedSignature", func(t *testing.T) {
		signature, err := processor.SignPSS(privateKey, webcrypto.AlgSHA256, 32, data)
		require.NoError(t, err)
		signature[10] ^= 0x01

		valid, err := processor.VerifyPSS(&privateKey.PublicKey, webcrypto.AlgSHA256, 32, signature, data)
		assert.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestRSAProcessorOAEP(t *testing.T) {
	processor := setupRSAProcessor(t)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		plainText := []byte("oaep protected message")

		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, nil, plainText)
		assert.NoError(t, err)
		assert.Equal(t, privateKey.Size(), len(cipherText))

		decrypted, err := processor.DecryptOAEP(privateKey, webcrypto.AlgSHA256, nil, cipherText)
		assert.NoError(t, err)
		assert.Equal(t, plainText, decrypted)
	})

	t.Run("RoundTripWithLabel", func(t *testing.T) {
		plainText := []byte("labeled message")
		label := []byte("context label")

		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, label, plainText)
		assert.NoError(t, err)

		decrypted, err := processor.DecryptOAEP(privateKey, webcrypto.AlgSHA256, label, cipherText)
		assert.NoError(t, err)
		assert.Equal(t, plainText, decrypted)
	})

	t.Run("InteroperatesWithPrimitiveDecrypter", func(t *testing.T) {
		plainText := []byte("cross checked message")

		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, nil, plainText)
		require.NoError(t, err)

		decrypted, err := rsa.DecryptOAEP(sha256.New(), nil, privateKey, cipherText, nil)
		assert.NoError(t, err)
		assert.Equal(t, plainText, decrypted)
	})

	t.Run("MessageTooLong", func(t *testing.T) {
		tooLong := bytes.Repeat([]byte{0xaa}, privateKey.Size()-2*32-1)

		_, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, nil, tooLong)
		assert.Error(t, err)
	})

	t.Run("WrongLabelYieldsGenericError", func(t *testing.T) {
		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, []byte("a"), []byte("msg"))
		require.NoError(t, err)

		_, err = processor.DecryptOAEP(privateKey, webcrypto.AlgSHA256, []byte("b"), cipherText)
		assert.ErrorIs(t, err, webcrypto.ErrDecryptionFailed)
	})

	t.Run("TamperedCiphertextYieldsGenericError", func(t *testing.T) {
		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, nil, []byte("msg"))
		require.NoError(t, err)
		cipherText[0] ^= 0x01

		_, err = processor.DecryptOAEP(privateKey, webcrypto.AlgSHA256, nil, cipherText)
		assert.ErrorIs(t, err, webcrypto.ErrDecryptionFailed)
	})

	t.Run("TruncatedCiphertextYieldsGenericError", func(t *testing.T) {
		cipherText, err := processor.EncryptOAEP(&privateKey.PublicKey, webcrypto.AlgSHA256, nil, []byte("msg"))
		require.NoError(t, err)

		_, err = processor.DecryptOAEP(privateKey, webcrypto.AlgSHA256, nil, cipherText[:len(cipherText)-1])
		assert.ErrorIs(t, err, webcrypto.ErrDecryptionFailed)
	})
}
