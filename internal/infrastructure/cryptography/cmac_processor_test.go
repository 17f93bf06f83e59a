//go:build unit
// +build unit

package cryptography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

func setupCMACProcessor(t *testing.T) cryptoalg.CMACProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewCMACProcessor(logger)
	require.NoError(t, err)
	return processor
}

// Vectors from NIST SP 800-38B, examples for AES-128.
func TestCMACProcessorKnownVectors(t *testing.T) {
	processor := setupCMACProcessor(t)
	key := testutil.MustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")

	t.Run("EmptyMessage", func(t *testing.T) {
		mac, err := processor.Sign(key, nil)
		assert.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "bb1d6929e95937287fa37d129b756746"), mac)
	})

	t.Run("SingleBlock", func(t *testing.T) {
		message := testutil.MustHex(t, "6bc1bee22e409f96e93d7e117393172a")
		mac, err := processor.Sign(key, message)
		assert.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "070a16b46b4d4144f79bdd9dd04a287c"), mac)
	})

	t.Run("PartialFinalBlock", func(t *testing.T) {
		message := testutil.MustHex(t,
			"6bc1bee22e409f96e93d7e117393172aae2d8a571e03ac9c9eb76fac45af8e5130c81c46a35ce411")
		mac, err := processor.Sign(key, message)
		assert.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "dfa66747de9ae63030ca32611497c827"), mac)
	})
}

func TestCMACProcessorVerify(t *testing.T) {
	processor := setupCMACProcessor(t)

	key, err := processor.GenerateKey(256)
	require.NoError(t, err)
	message := []byte("message to authenticate")

	t.Run("MatchingMAC", func(t *testing.T) {
		mac, err := processor.Sign(key, message)
		require.NoError(t, err)

		valid, err := processor.Verify(key, message, mac)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("TamperedMAC", func(t *testing.T) {
		mac, err := processor.Sign(key, message)
		require.NoError(t, err)
		mac[0] ^= 0x01

		valid, err := processor.Verify(key, message, mac)
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("TruncatedMAC", func(t *testing.T) {
		mac, err := processor.Sign(key, message)
		require.NoError(t, err)

		valid, err := processor.Verify(key, message, mac[:8])
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("InvalidKeySize", func(t *testing.T) {
		_, err := processor.Sign([]byte("shortkey"), message)
		assert.Error(t, err)
	})
}
