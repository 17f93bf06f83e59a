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

func setupPBKDF2Processor(t *testing.T) cryptoalg.PBKDF2Processor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewPBKDF2Processor(logger)
	require.NoError(t, err)
	return processor
}

func TestPBKDF2Processor(t *testing.T) {
	processor := setupPBKDF2Processor(t)

	// RFC 6070 test cases 1 and 2
	t.Run("KnownVectors", func(t *testing.T) {
		derived, err := processor.DeriveBits([]byte("password"), []byte("salt"), 1, webcrypto.AlgSHA1, 160)
		assert.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "0c60c80f961f0e71f3a9b524af6012062fe037a6"), derived)

		derived, err = processor.DeriveBits([]byte("password"), []byte("salt"), 2, webcrypto.AlgSHA1, 160)
		assert.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "ea6c014dc72d6f8ccd1ed92ace1d41f0d8de8957"), derived)
	})

	t.Run("IterationCountChangesOutput", func(t *testing.T) {
		a, err := processor.DeriveBits([]byte("password"), []byte("salt"), 1000, webcrypto.AlgSHA256, 256)
		require.NoError(t, err)
		b, err := processor.DeriveBits([]byte("password"), []byte("salt"), 2000, webcrypto.AlgSHA256, 256)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("RejectsNonPositiveIterations", func(t *testing.T) {
		_, err := processor.DeriveBits([]byte("password"), []byte("salt"), 0, webcrypto.AlgSHA256, 256)
		assert.Error(t, err)
	})

	t.Run("RejectsNonPositiveLength", func(t *testing.T) {
		_, err := processor.DeriveBits([]byte("password"), []byte("salt"), 1000, webcrypto.AlgSHA256, 0)
		assert.Error(t, err)
	})
}
