//go:build unit
// +build unit

package codec

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

func TestPKCS8RoundTrips(t *testing.T) {
	t.Run("RSA", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		der, err := MarshalPKCS8PrivateKey(key)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.Equal(t, "", namedCurve)

		parsedKey, ok := parsed.(*rsa.PrivateKey)
		require.True(t, ok)
		assert.Equal(t, 0, key.N.Cmp(parsedKey.N))
		assert.Equal(t, 0, key.D.Cmp(parsedKey.D))
	})

	t.Run("RSAInteropWithX509", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		der, err := MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)

		parsed, err := x509.ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.IsType(t, &rsa.PrivateKey{}, parsed)
	})

	t.Run("NISTCurves", func(t *testing.T) {
		curves := map[string]elliptic.Curve{
			webcrypto.CurveP256: elliptic.P256(),
			webcrypto.CurveP384: elliptic.P384(),
			webcrypto.CurveP521: elliptic.P521(),
		}
		for name, curve := range curves {
			t.Run(name, func(t *testing.T) {
				key, err := ecdsa.GenerateKey(curve, rand.Reader)
				require.NoError(t, err)

				der, err := MarshalPKCS8PrivateKey(key)
				assert.NoError(t, err)

				parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
				assert.NoError(t, err)
				assert.Equal(t, name, namedCurve)

				parsedKey, ok := parsed.(*ecdsa.PrivateKey)
				require.True(t, ok)
				assert.Equal(t, 0, key.D.Cmp(parsedKey.D))
			})
		}
	})

	t.Run("K256", func(t *testing.T) {
		key, err := secp256k1.GeneratePrivateKey()
		require.NoError(t, err)

		der, err := MarshalPKCS8PrivateKey(key)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveK256, namedCurve)

		parsedKey, ok := parsed.(*secp256k1.PrivateKey)
		require.True(t, ok)
		assert.Equal(t, key.Serialize(), parsedKey.Serialize())
	})

	t.Run("Ed25519", func(t *testing.T) {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		der, err := MarshalPKCS8PrivateKey(key)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveEd25519, namedCurve)
		assert.Equal(t, key, parsed.(ed25519.PrivateKey))
	})

	t.Run("Ed448", func(t *testing.T) {
		_, key, err := ed448.GenerateKey(rand.Reader)
		require.NoError(t, err)

		der, err := MarshalPKCS8PrivateKey(key)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveEd448, namedCurve)
		assert.Equal(t, key, parsed.(ed448.PrivateKey))
	})

	t.Run("X448", func(t *testing.T) {
		scalar := make(cryptoalg.X448PrivateKey, 56)
		for i := range scalar {
			scalar[i] = byte(i)
		}

		der, err := MarshalPKCS8PrivateKey(scalar)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParsePKCS8PrivateKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveX448, namedCurve)
		assert.Equal(t, scalar, parsed.(cryptoalg.X448PrivateKey))
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, _, err := ParsePKCS8PrivateKey([]byte("not der"))
		assert.Error(t, err)
	})
}

func TestSPKIRoundTrips(t *testing.T) {
	t.Run("RSA", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		der, err := MarshalSPKIPublicKey(&key.PublicKey)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParseSPKIPublicKey(der)
		assert.NoError(t, err)
		assert.Equal(t, "", namedCurve)

		parsedKey, ok := parsed.(*rsa.PublicKey)
		require.True(t, ok)
		assert.Equal(t, 0, key.N.Cmp(parsedKey.N))
	})

	t.Run("EC", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		der, err := MarshalSPKIPublicKey(&key.PublicKey)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParseSPKIPublicKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveP256, namedCurve)

		parsedKey, ok := parsed.(*ecdsa.PublicKey)
		require.True(t, ok)
		assert.Equal(t, 0, key.X.Cmp(parsedKey.X))
	})

	t.Run("ECInteropWithX509", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		stdDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)

		ourDER, err := MarshalSPKIPublicKey(&key.PublicKey)
		assert.NoError(t, err)
		assert.Equal(t, stdDER, ourDER)
	})

	t.Run("Ed25519", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		der, err := MarshalSPKIPublicKey(pub)
		assert.NoError(t, err)

		parsed, namedCurve, err := ParseSPKIPublicKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveEd25519, namedCurve)
		assert.Equal(t, pub, parsed.(ed25519.PublicKey))
	})

	t.Run("K256", func(t *testing.T) {
		key, err := secp256k1.GeneratePrivateKey()
		require.NoError(t, err)

		der, err := MarshalSPKIPublicKey(key.PubKey())
		assert.NoError(t, err)

		parsed, namedCurve, err := ParseSPKIPublicKey(der)
		assert.NoError(t, err)
		assert.Equal(t, webcrypto.CurveK256, namedCurve)

		parsedKey, ok := parsed.(*secp256k1.PublicKey)
		require.True(t, ok)
		assert.Equal(t, key.PubKey().SerializeUncompressed(), parsedKey.SerializeUncompressed())
	})
}
