package cryptography

import (
	"crypto"
	"crypto/sha1" // #nosec G505 -- SHA-1 is part of the supported algorithm catalogue
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// hashByName maps a WebCrypto hash name to the primitive hash.
func hashByName(name string) (crypto.Hash, func() hash.Hash, error) {
	switch name {
	case webcrypto.AlgSHA1:
		return crypto.SHA1, sha1.New, nil
	case webcrypto.AlgSHA256:
		return crypto.SHA256, sha256.New, nil
	case webcrypto.AlgSHA384:
		return crypto.SHA384, sha512.New384, nil
	case webcrypto.AlgSHA512:
		return crypto.SHA512, sha512.New, nil
	default:
		return 0, nil, webcrypto.NewOperationError("unsupported hash algorithm: %s", name)
	}
}

// truncateBits cuts derived keying material down to lengthBits, zeroing the
// unused low bits of the final byte.
func truncateBits(b []byte, lengthBits int) ([]byte, error) {
	if lengthBits <= 0 || lengthBits > len(b)*8 {
		return nil, webcrypto.NewOperationError("cannot derive %d bits from a %d-bit secret", lengthBits, len(b)*8)
	}
	out := append([]byte(nil), b[:(lengthBits+7)/8]...)
	if rem := lengthBits % 8; rem != 0 {
		out[len(out)-1] &= 0xFF << (8 - rem)
	}
	return out, nil
}
