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

func setupHMACProcessor(t *testing.T) cryptoalg.HMACProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	processor, err := NewHMACProcessor(logger)
	require.NoError(t, err)
	return processor
}

func TestHMACProcessor(t *testing.T) {
	processor := setupHMACProcessor(t)

	// RFC 4231 test case 2
	t.Run("KnownVector", func(t *testing.T) {
		mac, err := processor.Sign([]byte("Jefe"), webcrypto.AlgSHA256, []byte("what do ya want for nothing?"))
		assert.NoError(t, err)
		assert.Equal(t,
			testutil.MustHex(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"),
			mac)
	})

	t.Run("GenerateKeyDefaultsToBlockSize", func(t *testing.T) {
		key, err := processor.GenerateKey(webcrypto.AlgSHA256, 0)
		assert.NoError(t, err)
		assert.Equal(t, 64, len(key))

		key512, err := processor.GenerateKey(webcrypto.AlgSHA512, 0)
		assert.NoError(t, err)
		assert.Equal(t, 128, len(key512))
	})

	t.Run("GenerateKeyExplicitLength", func(t *testing.T) {
		key, err := processor.GenerateKey(webcrypto.AlgSHA256, 256)
		assert.NoError(t, err)
		assert.Equal(t, 32, len(key))
	})

	t.Run("SignVerify", func(t *testing.T) {
		key, err := processor.GenerateKey(webcrypto.AlgSHA384, 0)
		require.NoError(t, err)
		data := []byte("message to authenticate")

		mac, err := processor.Sign(key, webcrypto.AlgSHA384, data)
		assert.NoError(t, err)
		assert.Equal(t, 48, len(mac))

		valid, err := processor.Verify(key, webcrypto.AlgSHA384, mac, data)
		assert.NoError(t, err)
		assert.True(t, valid)

		mac[0] ^= 0x01
		valid, err = processor.Verify(key, webcrypto.AlgSHA384, mac, data)
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("UnknownHash", func(t *testing.T) {
		_, err := processor.Sign([]byte("key"), "MD5", []byte("data"))
		assert.Error(t, err)
	})
}

func TestSHAProcessor(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	processor, err := NewSHAProcessor(logger)
	require.NoError(t, err)

	t.Run("KnownDigests", func(t *testing.T) {
		cases := []struct {
			hashName string
			expected string
		}{
			{webcrypto.AlgSHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
			{webcrypto.AlgSHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
			{webcrypto.AlgSHA384, "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7"},
			{webcrypto.AlgSHA512, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
		}
		for _, tc := range cases {
			t.Run(tc.hashName, func(t *testing.T) {
				digest, err := processor.Digest(tc.hashName, []byte("abc"))
				assert.NoError(t, err)
				assert.Equal(t, testutil.MustHex(t, tc.expected), digest)
			})
		}
	})

	t.Run("UnknownHash", func(t *testing.T) {
		_, err := processor.Digest("MD5", []byte("abc"))
		assert.Error(t, err)
	})
}
