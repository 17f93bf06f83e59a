//go:build unit
// +build unit

package cryptography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

func setupHKDFProcessor(t *testing.T) cryptoalg.HKDFProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewHKDFProcessor(logger)
	require.NoError(t, err)
	return processor
}

func TestHKDFProcessor(t *testing.T) {
	processor := setupHKDFProcessor(t)

	// RFC 5869 appendix A test case 1
	t.Run("KnownVector", func(t *testing.T) {
		secret := testutil.MustHex(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
		salt := testutil.MustHex(t, "000102030405060708090a0b0c")
		info := testutil.MustHex(t, "f0f1f2f3f4f5f6f7f8f9")
		expected := testutil.MustHex(t,
			"3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865")

		okm, err := processor.DeriveBits(secret, salt, info, webcrypto.AlgSHA256, 42*8)
		assert.NoError(t, err)
		assert.Equal(t, expected, okm)
	})

	t.Run("EmptySaltDefaultsToZeros", func(t *testing.T) {
		secret := []byte("input keying material")
		hashLen := 32

		zeroSalt := make([]byte, hashLen)
		withExplicit, err := processor.DeriveBits(secret, zeroSalt, nil, webcrypto.AlgSHA256, 256)
		require.NoError(t, err)

		withDefault, err := processor.DeriveBits(secret, nil, nil, webcrypto.AlgSHA256, 256)
		assert.NoError(t, err)
		assert.Equal(t, withExplicit, withDefault)
	})

	t.Run("InfoSeparatesOutputs", func(t *testing.T) {
		secret := []byte("input keying material")

		a, err := processor.DeriveBits(secret, nil, []byte("context-a"), webcrypto.AlgSHA256, 256)
		require.NoError(t, err)
		b, err := processor.DeriveBits(secret, nil, []byte("context-b"), webcrypto.AlgSHA256, 256)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("OutputLengthLimit", func(t *testing.T) {
		secret := []byte("input keying material")

		_, err := processor.DeriveBits(secret, nil, nil, webcrypto.AlgSHA256, (255*32+1)*8)
		assert.Error(t, err)
	})

	t.Run("UnknownHash", func(t *testing.T) {
		_, err := processor.DeriveBits([]byte("ikm"), nil, nil, "MD5", 128)
		assert.Error(t, err)
	})
}
