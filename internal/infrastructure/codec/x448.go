package codec

import (
	"github.com/cloudflare/circl/dh/x448"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// X448PublicFromPrivate recovers the X448 group element for a scalar. JWK
// private exports need it because the OKP document always carries x.
func X448PublicFromPrivate(priv cryptoalg.X448PrivateKey) (cryptoalg.X448PublicKey, error) {
	if len(priv) != x448.Size {
		return nil, webcrypto.NewCryptoError("invalid X448 private key length %d", len(priv))
	}
	var pub, secret x448.Key
	copy(secret[:], priv)
	x448.KeyGen(&pub, &secret)
	return cryptoalg.X448PublicKey(pub[:]), nil
}
