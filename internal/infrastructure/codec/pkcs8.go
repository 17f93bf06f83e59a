package codec

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"math/big"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type pkcs8Key struct {
	Version    int
	Algo       algorithmIdentifier
	PrivateKey []byte
}

type subjectPublicKeyInfo struct {
	Algo      algorithmIdentifier
	PublicKey asn1.BitString
}

// SEC 1 EcPrivateKey. The curve identifier is carried both here and in the
// outer PKCS#8 algorithm parameters; parsers accept either.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// EllipticCurveByName maps a WebCrypto curve name to the primitive curve for
// the NIST curves. K-256 is served by the secp256k1 primitive instead.
func EllipticCurveByName(namedCurve string) (elliptic.Curve, error) {
	switch namedCurve {
	case webcrypto.CurveP256:
		return elliptic.P256(), nil
	case webcrypto.CurveP384:
		return elliptic.P384(), nil
	case webcrypto.CurveP521:
		return elliptic.P521(), nil
	default:
		return nil, webcrypto.NewOperationError("unknown elliptic curve: %s", namedCurve)
	}
}

// CurveNameOf returns the WebCrypto name of the curve a parsed key lives on.
func CurveNameOf(curve elliptic.Curve) (string, error) {
	switch curve {
	case elliptic.P256():
		return webcrypto.CurveP256, nil
	case elliptic.P384():
		return webcrypto.CurveP384, nil
	case elliptic.P521():
		return webcrypto.CurveP521, nil
	default:
		return "", webcrypto.NewOperationError("unsupported elliptic curve")
	}
}

func padScalar(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

func marshalWithOIDParams(oid asn1.ObjectIdentifier) (asn1.RawValue, error) {
	raw, err := asn1.Marshal(oid)
	if err != nil {
		return asn1.RawValue{}, webcrypto.WrapCryptoError(err, "failed to encode algorithm parameters")
	}
	return asn1.RawValue{FullBytes: raw}, nil
}

// MarshalPKCS8PrivateKey wraps a private key into DER PKCS#8.
func MarshalPKCS8PrivateKey(key interface{}) ([]byte, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return marshalPKCS8(oidRSAEncryption, asn1.NullRawValue, x509.MarshalPKCS1PrivateKey(k))

	case *ecdsa.PrivateKey:
		name, err := CurveNameOf(k.Curve)
		if err != nil {
			return nil, err
		}
		size, _ := PointSize(name)
		oid, _ := CurveOID(name)
		point := elliptic.Marshal(k.Curve, k.X, k.Y)
		inner, err := asn1.Marshal(ecPrivateKey{
			Version:       1,
			PrivateKey:    padScalar(k.D.Bytes(), size),
			NamedCurveOID: oid,
			PublicKey:     asn1.BitString{Bytes: point, BitLength: 8 * len(point)},
		})
		if err != nil {
			return nil, webcrypto.WrapCryptoError(err, "failed to encode EC private key")
		}
		params, err := marshalWithOIDParams(oid)
		if err != nil {
			return nil, err
		}
		return marshalPKCS8(oidECPublicKey, params, inner)

	case *secp256k1.PrivateKey:
		pub := k.PubKey()
		point := pub.SerializeUncompressed()
		inner, err := asn1.Marshal(ecPrivateKey{
			Version:       1,
			PrivateKey:    k.Serialize(),
			NamedCurveOID: oidCurveK256,
			PublicKey:     asn1.BitString{Bytes: point, BitLength: 8 * len(point)},
		})
		if err != nil {
			return nil, webcrypto.WrapCryptoError(err, "failed to encode EC private key")
		}
		params, err := marshalWithOIDParams(oidCurveK256)
		if err != nil {
			return nil, err
		}
		return marshalPKCS8(oidECPublicKey, params, inner)

	case ed25519.PrivateKey:
		return marshalOKPPrivate(oidEd25519, k.Seed())

	case ed448.PrivateKey:
		return marshalOKPPrivate(oidEd448, k.Seed())

	case *ecdh.PrivateKey:
		return marshalOKPPrivate(oidX25519, k.Bytes())

	case cryptoalg.X448PrivateKey:
		return marshalOKPPrivate(oidX448, k)

	default:
		return nil, webcrypto.NewOperationError("unsupported private key type %T", key)
	}
}

func marshalPKCS8(oid asn1.ObjectIdentifier, params asn1.RawValue, inner []byte) ([]byte, error) {
	der, err := asn1.Marshal(pkcs8Key{
		Version:    0,
		Algo:       algorithmIdentifier{Algorithm: oid, Parameters: params},
		PrivateKey: inner,
	})
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "failed to encode PKCS#8 structure")
	}
	return der, nil
}

func marshalOKPPrivate(oid asn1.ObjectIdentifier, scalar []byte) ([]byte, error) {
	// RFC 8410 CurvePrivateKey is an OCTET STRING wrapping the scalar.
	inner, err := asn1.Marshal(scalar)
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "failed to encode curve private key")
	}
	der, err := asn1.Marshal(pkcs8Key{
		Version:    0,
		Algo:       algorithmIdentifier{Algorithm: oid},
		PrivateKey: inner,
	})
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "failed to encode PKCS#8 structure")
	}
	return der, nil
}

// ParsePKCS8PrivateKey unwraps DER PKCS#8 into a native private key. For EC
// and OKP keys the curve name is returned alongside.
func ParsePKCS8PrivateKey(der []byte) (interface{}, string, error) {
	var p8 pkcs8Key
	if rest, err := asn1.Unmarshal(der, &p8); err != nil {
		return nil, "", webcrypto.WrapCryptoError(err, "malformed PKCS#8 structure")
	} else if len(rest) != 0 {
		return nil, "", webcrypto.NewCryptoError("trailing bytes after PKCS#8 structure")
	}

	switch {
	case p8.Algo.Algorithm.Equal(oidRSAEncryption):
		key, err := x509.ParsePKCS1PrivateKey(p8.PrivateKey)
		if err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "malformed RSA private key")
		}
		return key, "", nil

	case p8.Algo.Algorithm.Equal(oidECPublicKey):
		return parseECPrivate(p8)

	case p8.Algo.Algorithm.Equal(oidEd25519),
		p8.Algo.Algorithm.Equal(oidEd448),
		p8.Algo.Algorithm.Equal(oidX25519),
		p8.Algo.Algorithm.Equal(oidX448):
		return parseOKPPrivate(p8)

	default:
		return nil, "", webcrypto.NewCryptoError("unrecognized private key algorithm: %v", p8.Algo.Algorithm)
	}
}

func parseECPrivate(p8 pkcs8Key) (interface{}, string, error) {
	var inner ecPrivateKey
	if _, err := asn1.Unmarshal(p8.PrivateKey, &inner); err != nil {
		return nil, "", webcrypto.WrapCryptoError(err, "malformed EC private key")
	}

	oid := inner.NamedCurveOID
	if len(oid) == 0 {
		if len(p8.Algo.Parameters.FullBytes) == 0 {
			return nil, "", webcrypto.NewCryptoError("EC private key carries no curve identifier")
		}
		if _, err := asn1.Unmarshal(p8.Algo.Parameters.FullBytes, &oid); err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "malformed EC algorithm parameters")
		}
	}

	name, err := CurveByOID(oid)
	if err != nil {
		return nil, "", err
	}

	if name == webcrypto.CurveK256 {
		return secp256k1.PrivKeyFromBytes(inner.PrivateKey), name, nil
	}

	curve, err := EllipticCurveByName(name)
	if err != nil {
		return nil, "", err
	}
	d := new(big.Int).SetBytes(inner.PrivateKey)
	x, y := curve.ScalarBaseMult(inner.PrivateKey)
	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}
	return key, name, nil
}

func parseOKPPrivate(p8 pkcs8Key) (interface{}, string, error) {
	var scalar []byte
	if _, err := asn1.Unmarshal(p8.PrivateKey, &scalar); err != nil {
		return nil, "", webcrypto.WrapCryptoError(err, "malformed curve private key")
	}

	name, err := OKPCurveByOID(p8.Algo.Algorithm)
	if err != nil {
		return nil, "", err
	}

	switch name {
	case webcrypto.CurveEd25519:
		if len(scalar) != ed25519.SeedSize {
			return nil, "", webcrypto.NewCryptoError("invalid Ed25519 seed length %d", len(scalar))
		}
		return ed25519.NewKeyFromSeed(scalar), name, nil
	case webcrypto.CurveEd448:
		if len(scalar) != ed448.SeedSize {
			return nil, "", webcrypto.NewCryptoError("invalid Ed448 seed length %d", len(scalar))
		}
		return ed448.NewKeyFromSeed(scalar), name, nil
	case webcrypto.CurveX25519:
		key, err := ecdh.X25519().NewPrivateKey(scalar)
		if err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "invalid X25519 private key")
		}
		return key, name, nil
	case webcrypto.CurveX448:
		if len(scalar) != 56 {
			return nil, "", webcrypto.NewCryptoError("invalid X448 private key length %d", len(scalar))
		}
		return cryptoalg.X448PrivateKey(scalar), name, nil
	}
	return nil, "", webcrypto.NewCryptoError("unrecognized curve %s", name)
}

// MarshalSPKIPublicKey wraps a public key into DER SubjectPublicKeyInfo.
func MarshalSPKIPublicKey(key interface{}) ([]byte, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return marshalSPKI(oidRSAEncryption, asn1.NullRawValue, x509.MarshalPKCS1PublicKey(k))

	case *ecdsa.PublicKey:
		name, err := CurveNameOf(k.Curve)
		if err != nil {
			return nil, err
		}
		oid, _ := CurveOID(name)
		params, err := marshalWithOIDParams(oid)
		if err != nil {
			return nil, err
		}
		return marshalSPKI(oidECPublicKey, params, elliptic.Marshal(k.Curve, k.X, k.Y))

	case *secp256k1.PublicKey:
		params, err := marshalWithOIDParams(oidCurveK256)
		if err != nil {
			return nil, err
		}
		return marshalSPKI(oidECPublicKey, params, k.SerializeUncompressed())

	case ed25519.PublicKey:
		return marshalSPKI(oidEd25519, asn1.RawValue{}, k)

	case ed448.PublicKey:
		return marshalSPKI(oidEd448, asn1.RawValue{}, k)

	case *ecdh.PublicKey:
		return marshalSPKI(oidX25519, asn1.RawValue{}, k.Bytes())

	case cryptoalg.X448PublicKey:
		return marshalSPKI(oidX448, asn1.RawValue{}, k)

	default:
		return nil, webcrypto.NewOperationError("unsupported public key type %T", key)
	}
}

func marshalSPKI(oid asn1.ObjectIdentifier, params asn1.RawValue, point []byte) ([]byte, error) {
	der, err := asn1.Marshal(subjectPublicKeyInfo{
		Algo:      algorithmIdentifier{Algorithm: oid, Parameters: params},
		PublicKey: asn1.BitString{Bytes: point, BitLength: 8 * len(point)},
	})
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "failed to encode SPKI structure")
	}
	return der, nil
}

// ParseSPKIPublicKey unwraps DER SubjectPublicKeyInfo into a native public
// key, returning the curve name for EC and OKP keys.
func ParseSPKIPublicKey(der []byte) (interface{}, string, error) {
	var info subjectPublicKeyInfo
	if rest, err := asn1.Unmarshal(der, &info); err != nil {
		return nil, "", webcrypto.WrapCryptoError(err, "malformed SPKI structure")
	} else if len(rest) != 0 {
		return nil, "", webcrypto.NewCryptoError("trailing bytes after SPKI structure")
	}

	point := info.PublicKey.RightAlign()

	switch {
	case info.Algo.Algorithm.Equal(oidRSAEncryption):
		key, err := x509.ParsePKCS1PublicKey(point)
		if err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "malformed RSA public key")
		}
		return key, "", nil

	case info.Algo.Algorithm.Equal(oidECPublicKey):
		var oid asn1.ObjectIdentifier
		if len(info.Algo.Parameters.FullBytes) == 0 {
			return nil, "", webcrypto.NewCryptoError("EC public key carries no curve identifier")
		}
		if _, err := asn1.Unmarshal(info.Algo.Parameters.FullBytes, &oid); err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "malformed EC algorithm parameters")
		}
		name, err := CurveByOID(oid)
		if err != nil {
			return nil, "", err
		}
		key, err := ParseRawPublicKey(point, name)
		if err != nil {
			return nil, "", err
		}
		return key, name, nil

	case info.Algo.Algorithm.Equal(oidEd25519):
		if len(point) != ed25519.PublicKeySize {
			return nil, "", webcrypto.NewCryptoError("invalid Ed25519 public key length %d", len(point))
		}
		return ed25519.PublicKey(point), webcrypto.CurveEd25519, nil

	case info.Algo.Algorithm.Equal(oidEd448):
		if len(point) != ed448.PublicKeySize {
			return nil, "", webcrypto.NewCryptoError("invalid Ed448 public key length %d", len(point))
		}
		return ed448.PublicKey(point), webcrypto.CurveEd448, nil

	case info.Algo.Algorithm.Equal(oidX25519):
		key, err := ecdh.X25519().NewPublicKey(point)
		if err != nil {
			return nil, "", webcrypto.WrapCryptoError(err, "invalid X25519 public key")
		}
		return key, webcrypto.CurveX25519, nil

	case info.Algo.Algorithm.Equal(oidX448):
		if len(point) != 56 {
			return nil, "", webcrypto.NewCryptoError("invalid X448 public key length %d", len(point))
		}
		return cryptoalg.X448PublicKey(point), webcrypto.CurveX448, nil

	default:
		return nil, "", webcrypto.NewCryptoError("unrecognized public key algorithm: %v", info.Algo.Algorithm)
	}
}
