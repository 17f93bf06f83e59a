package codec

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// MarshalRawPublicKey encodes a public key in its raw form: the uncompressed
// point for EC keys, the curve-native bytes for OKP keys.
func MarshalRawPublicKey(key interface{}) ([]byte, error) {
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		return elliptic.Marshal(k.Curve, k.X, k.Y), nil
	case *secp256k1.PublicKey:
		return k.SerializeUncompressed(), nil
	case ed25519.PublicKey:
		return []byte(k), nil
	case ed448.PublicKey:
		return []byte(k), nil
	case *ecdh.PublicKey:
		return k.Bytes(), nil
	case cryptoalg.X448PublicKey:
		return []byte(k), nil
	default:
		return nil, webcrypto.NewOperationError("unsupported raw public key type %T", key)
	}
}

// ParseRawPublicKey decodes raw public-key bytes for the named curve.
func ParseRawPublicKey(raw []byte, namedCurve string) (interface{}, error) {
	switch namedCurve {
	case webcrypto.CurveP256, webcrypto.CurveP384, webcrypto.CurveP521:
		curve, err := EllipticCurveByName(namedCurve)
		if err != nil {
			return nil, err
		}
		x, y := elliptic.Unmarshal(curve, raw)
		if x == nil {
			return nil, webcrypto.NewCryptoError("invalid point encoding for curve %s", namedCurve)
		}
		return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil

	case webcrypto.CurveK256:
		key, err := secp256k1.ParsePubKey(raw)
		if err != nil {
			return nil, webcrypto.WrapCryptoError(err, "invalid point encoding for curve K-256")
		}
		return key, nil

	case webcrypto.CurveEd25519:
		if len(raw) != ed25519.PublicKeySize {
			return nil, webcrypto.NewCryptoError("invalid Ed25519 public key length %d", len(raw))
		}
		return ed25519.PublicKey(append([]byte(nil), raw...)), nil

	case webcrypto.CurveEd448:
		if len(raw) != ed448.PublicKeySize {
			return nil, webcrypto.NewCryptoError("invalid Ed448 public key length %d", len(raw))
		}
		return ed448.PublicKey(append([]byte(nil), raw...)), nil

	case webcrypto.CurveX25519:
		key, err := ecdh.X25519().NewPublicKey(raw)
		if err != nil {
			return nil, webcrypto.WrapCryptoError(err, "invalid X25519 public key")
		}
		return key, nil

	case webcrypto.CurveX448:
		if len(raw) != 56 {
			return nil, webcrypto.NewCryptoError("invalid X448 public key length %d", len(raw))
		}
		return cryptoalg.X448PublicKey(append([]byte(nil), raw...)), nil

	default:
		return nil, webcrypto.NewOperationError("unknown curve: %s", namedCurve)
	}
}
