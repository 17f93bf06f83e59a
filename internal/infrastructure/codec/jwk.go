package codec

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// JSONWebKey is the RFC 7517 document shape, including the RFC 8037 OKP
// extension. Scalar fields are base64url without padding.
type JSONWebKey struct {
	Kty    string   `json:"kty"`
	Kid    string   `json:"kid,omitempty"`
	Alg    string   `json:"alg,omitempty"`
	Crv    string   `json:"crv,omitempty"`
	X      string   `json:"x,omitempty"`
	Y      string   `json:"y,omitempty"`
	D      string   `json:"d,omitempty"`
	N      string   `json:"n,omitempty"`
	E      string   `json:"e,omitempty"`
	P      string   `json:"p,omitempty"`
	Q      string   `json:"q,omitempty"`
	DP     string   `json:"dp,omitempty"`
	DQ     string   `json:"dq,omitempty"`
	QI     string   `json:"qi,omitempty"`
	K      string   `json:"k,omitempty"`
	KeyOps []string `json:"key_ops,omitempty"`
	Ext    *bool    `json:"ext,omitempty"`
}

func b64u(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func db64u(field, s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, webcrypto.NewTypeError("JWK field %q is not valid base64url", field)
	}
	return b, nil
}

func shaSuffix(hashName string) string {
	switch hashName {
	case webcrypto.AlgSHA1:
		return "1"
	case webcrypto.AlgSHA256:
		return "256"
	case webcrypto.AlgSHA384:
		return "384"
	case webcrypto.AlgSHA512:
		return "512"
	}
	return ""
}

// ComputeAlg derives the JWK "alg" value from the algorithm name, hash, key
// length and curve. It is a pure function invoked at serialization time; the
// value is never stored. Algorithms without a registered alg return "".
func ComputeAlg(name, hashName string, lengthBits int, namedCurve string) string {
	switch name {
	case webcrypto.AlgAESCBC:
		return fmt.Sprintf("A%dCBC", lengthBits)
	case webcrypto.AlgAESCTR:
		return fmt.Sprintf("A%dCTR", lengthBits)
	case webcrypto.AlgAESGCM:
		return fmt.Sprintf("A%dGCM", lengthBits)
	case webcrypto.AlgAESKW:
		return fmt.Sprintf("A%dKW", lengthBits)
	case webcrypto.AlgHMAC:
		if s := shaSuffix(hashName); s != "" {
			return "HS" + s
		}
	case webcrypto.AlgRSASSA:
		if s := shaSuffix(hashName); s != "" {
			return "RS" + s
		}
	case webcrypto.AlgRSAPSS:
		if s := shaSuffix(hashName); s != "" {
			return "PS" + s
		}
	case webcrypto.AlgRSAOAEP:
		if hashName == webcrypto.AlgSHA1 {
			return "RSA-OAEP"
		}
		if s := shaSuffix(hashName); s != "" {
			return "RSA-OAEP-" + s
		}
	case webcrypto.AlgECDSA:
		if namedCurve == webcrypto.CurveK256 {
			return "ES256K"
		}
		switch namedCurve {
		case webcrypto.CurveP256:
			return "ES256"
		case webcrypto.CurveP384:
			return "ES384"
		case webcrypto.CurveP521:
			return "ES512"
		}
	case webcrypto.AlgEd25519, webcrypto.AlgEd448:
		return "EdDSA"
	}
	return ""
}

// MarshalSecretJWK renders symmetric key material as an oct JWK.
func MarshalSecretJWK(secret []byte, alg *keys.Algorithm, extractable bool, usages []string) ([]byte, error) {
	ext := extractable
	doc := JSONWebKey{
		Kty:    "oct",
		Alg:    ComputeAlg(alg.Name, alg.Hash, len(secret)*8, ""),
		K:      b64u(secret),
		KeyOps: usages,
		Ext:    &ext,
	}
	return json.Marshal(doc)
}

// ParseSecretJWK decodes an oct JWK into its secret bytes. The parsed
// document is returned alongside so providers can validate key_ops and ext.
func ParseSecretJWK(data []byte) (*JSONWebKey, []byte, error) {
	var doc JSONWebKey
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, webcrypto.NewTypeError("malformed JWK document: %v", err)
	}
	if doc.Kty != "oct" {
		return nil, nil, webcrypto.NewTypeError("JWK kty %q does not describe a secret key", doc.Kty)
	}
	if doc.K == "" {
		return nil, nil, webcrypto.NewTypeError("JWK is missing required field %q", "k")
	}
	secret, err := db64u("k", doc.K)
	if err != nil {
		return nil, nil, err
	}
	return &doc, secret, nil
}

// MarshalAsymmetricJWK renders a parsed asymmetric key as a JWK document.
func MarshalAsymmetricJWK(key interface{}, alg *keys.Algorithm, extractable bool, usages []string) ([]byte, error) {
	ext := extractable
	doc := JSONWebKey{KeyOps: usages, Ext: &ext}

	switch k := key.(type) {
	case *rsa.PublicKey:
		doc.Kty = "RSA"
		doc.N = b64u(k.N.Bytes())
		doc.E = b64u(big.NewInt(int64(k.E)).Bytes())

	case *rsa.PrivateKey:
		k.Precompute()
		doc.Kty = "RSA"
		doc.N = b64u(k.N.Bytes())
		doc.E = b64u(big.NewInt(int64(k.E)).Bytes())
		doc.D = b64u(k.D.Bytes())
		doc.P = b64u(k.Primes[0].Bytes())
		doc.Q = b64u(k.Primes[1].Bytes())
		doc.DP = b64u(k.Precomputed.Dp.Bytes())
		doc.DQ = b64u(k.Precomputed.Dq.Bytes())
		doc.QI = b64u(k.Precomputed.Qinv.Bytes())

	case *ecdsa.PublicKey:
		name, err := CurveNameOf(k.Curve)
		if err != nil {
			return nil, err
		}
		size, _ := PointSize(name)
		doc.Kty = "EC"
		doc.Crv = name
		doc.X = b64u(padScalar(k.X.Bytes(), size))
		doc.Y = b64u(padScalar(k.Y.Bytes(), size))

	case *ecdsa.PrivateKey:
		name, err := CurveNameOf(k.Curve)
		if err != nil {
			return nil, err
		}
		size, _ := PointSize(name)
		doc.Kty = "EC"
		doc.Crv = name
		doc.X = b64u(padScalar(k.X.Bytes(), size))
		doc.Y = b64u(padScalar(k.Y.Bytes(), size))
		doc.D = b64u(padScalar(k.D.Bytes(), size))

	case *secp256k1.PublicKey:
		point := k.SerializeUncompressed()
		doc.Kty = "EC"
		doc.Crv = webcrypto.CurveK256
		doc.X = b64u(point[1:33])
		doc.Y = b64u(point[33:])

	case *secp256k1.PrivateKey:
		point := k.PubKey().SerializeUncompressed()
		doc.Kty = "EC"
		doc.Crv = webcrypto.CurveK256
		doc.X = b64u(point[1:33])
		doc.Y = b64u(point[33:])
		doc.D = b64u(k.Serialize())

	case ed25519.PublicKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveEd25519
		doc.X = b64u(k)

	case ed25519.PrivateKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveEd25519
		doc.X = b64u(k.Public().(ed25519.PublicKey))
		doc.D = b64u(k.Seed())

	case ed448.PublicKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveEd448
		doc.X = b64u(k)

	case ed448.PrivateKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveEd448
		doc.X = b64u(k.Public().(ed448.PublicKey))
		doc.D = b64u(k.Seed())

	case *ecdh.PublicKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveX25519
		doc.X = b64u(k.Bytes())

	case *ecdh.PrivateKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveX25519
		doc.X = b64u(k.PublicKey().Bytes())
		doc.D = b64u(k.Bytes())

	case cryptoalg.X448PublicKey:
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveX448
		doc.X = b64u(k)

	case cryptoalg.X448PrivateKey:
		pub, err := X448PublicFromPrivate(k)
		if err != nil {
			return nil, err
		}
		doc.Kty = "OKP"
		doc.Crv = webcrypto.CurveX448
		doc.X = b64u(pub)
		doc.D = b64u(k)

	default:
		return nil, webcrypto.NewOperationError("unsupported key type %T for JWK export", key)
	}

	if alg != nil {
		doc.Alg = ComputeAlg(alg.Name, alg.Hash, alg.Length, alg.NamedCurve)
	}
	return json.Marshal(doc)
}

// ParseAsymmetricJWK decodes an RSA, EC or OKP JWK document into a native
// key. The returned class is private when the document carries the private
// scalar, public otherwise.
func ParseAsymmetricJWK(data []byte) (*JSONWebKey, interface{}, string, keys.KeyClass, error) {
	var doc JSONWebKey
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, "", "", webcrypto.NewTypeError("malformed JWK document: %v", err)
	}

	switch doc.Kty {
	case "RSA":
		key, class, err := parseRSAJWK(&doc)
		return &doc, key, "", class, err
	case "EC":
		key, curve, class, err := parseECJWK(&doc)
		return &doc, key, curve, class, err
	case "OKP":
		key, curve, class, err := parseOKPJWK(&doc)
		return &doc, key, curve, class, err
	default:
		return nil, nil, "", "", webcrypto.NewTypeError("unsupported JWK kty %q", doc.Kty)
	}
}

func parseRSAJWK(doc *JSONWebKey) (interface{}, keys.KeyClass, error) {
	if doc.N == "" || doc.E == "" {
		return nil, "", webcrypto.NewTypeError("JWK is missing required field %q", "n")
	}
	nBytes, err := db64u("n", doc.N)
	if err != nil {
		return nil, "", err
	}
	eBytes, err := db64u("e", doc.E)
	if err != nil {
		return nil, "", err
	}
	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}

	if doc.D == "" {
		return pub, keys.ClassPublic, nil
	}

	if doc.P == "" || doc.Q == "" {
		return nil, "", webcrypto.NewTypeError("JWK is missing required field %q", "p")
	}
	dBytes, err := db64u("d", doc.D)
	if err != nil {
		return nil, "", err
	}
	pBytes, err := db64u("p", doc.P)
	if err != nil {
		return nil, "", err
	}
	qBytes, err := db64u("q", doc.Q)
	if err != nil {
		return nil, "", err
	}

	priv := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(dBytes),
		Primes: []*big.Int{
			new(big.Int).SetBytes(pBytes),
			new(big.Int).SetBytes(qBytes),
		},
	}
	priv.Precompute()
	if err := priv.Validate(); err != nil {
		return nil, "", webcrypto.WrapCryptoError(err, "inconsistent RSA JWK")
	}
	return priv, keys.ClassPrivate, nil
}

func parseECJWK(doc *JSONWebKey) (interface{}, string, keys.KeyClass, error) {
	if doc.Crv == "" {
		return nil, "", "", webcrypto.NewTypeError("JWK is missing required field %q", "crv")
	}
	if doc.X == "" || doc.Y == "" {
		return nil, "", "", webcrypto.NewTypeError("JWK is missing required field %q", "x")
	}
	size, err := PointSize(doc.Crv)
	if err != nil {
		return nil, "", "", err
	}
	xBytes, err := db64u("x", doc.X)
	if err != nil {
		return nil, "", "", err
	}
	yBytes, err := db64u("y", doc.Y)
	if err != nil {
		return nil, "", "", err
	}

	point := make([]byte, 1+2*size)
	point[0] = 0x04
	copy(point[1:1+size], padScalar(xBytes, size))
	copy(point[1+size:], padScalar(yBytes, size))

	pub, err := ParseRawPublicKey(point, doc.Crv)
	if err != nil {
		return nil, "", "", err
	}

	if doc.D == "" {
		return pub, doc.Crv, keys.ClassPublic, nil
	}

	dBytes, err := db64u("d", doc.D)
	if err != nil {
		return nil, "", "", err
	}

	if doc.Crv == webcrypto.CurveK256 {
		priv := secp256k1.PrivKeyFromBytes(dBytes)
		if !priv.PubKey().IsEqual(pub.(*secp256k1.PublicKey)) {
			return nil, "", "", webcrypto.NewCryptoError("JWK private scalar does not generate the supplied public point")
		}
		return priv, doc.Crv, keys.ClassPrivate, nil
	}

	ecPub := pub.(*ecdsa.PublicKey)
	priv := &ecdsa.PrivateKey{
		PublicKey: *ecPub,
		D:         new(big.Int).SetBytes(dBytes),
	}
	px, py := ecPub.Curve.ScalarBaseMult(priv.D.Bytes())
	if px.Cmp(ecPub.X) != 0 || py.Cmp(ecPub.Y) != 0 {
		return nil, "", "", webcrypto.NewCryptoError("JWK private scalar does not generate the supplied public point")
	}
	return priv, doc.Crv, keys.ClassPrivate, nil
}

func parseOKPJWK(doc *JSONWebKey) (interface{}, string, keys.KeyClass, error) {
	if doc.Crv == "" {
		return nil, "", "", webcrypto.NewTypeError("JWK is missing required field %q", "crv")
	}
	if doc.X == "" {
		return nil, "", "", webcrypto.NewTypeError("JWK is missing required field %q", "x")
	}

	if doc.D == "" {
		xBytes, err := db64u("x", doc.X)
		if err != nil {
			return nil, "", "", err
		}
		pub, err := ParseRawPublicKey(xBytes, doc.Crv)
		if err != nil {
			return nil, "", "", err
		}
		return pub, doc.Crv, keys.ClassPublic, nil
	}

	dBytes, err := db64u("d", doc.D)
	if err != nil {
		return nil, "", "", err
	}

	switch doc.Crv {
	case webcrypto.CurveEd25519:
		if len(dBytes) != ed25519.SeedSize {
			return nil, "", "", webcrypto.NewCryptoError("invalid Ed25519 seed length %d", len(dBytes))
		}
		return ed25519.NewKeyFromSeed(dBytes), doc.Crv, keys.ClassPrivate, nil
	case webcrypto.CurveEd448:
		if len(dBytes) != ed448.SeedSize {
			return nil, "", "", webcrypto.NewCryptoError("invalid Ed448 seed length %d", len(dBytes))
		}
		return ed448.NewKeyFromSeed(dBytes), doc.Crv, keys.ClassPrivate, nil
	case webcrypto.CurveX25519:
		key, err := ecdh.X25519().NewPrivateKey(dBytes)
		if err != nil {
			return nil, "", "", webcrypto.WrapCryptoError(err, "invalid X25519 private key")
		}
		return key, doc.Crv, keys.ClassPrivate, nil
	case webcrypto.CurveX448:
		if len(dBytes) != 56 {
			return nil, "", "", webcrypto.NewCryptoError("invalid X448 private key length %d", len(dBytes))
		}
		return cryptoalg.X448PrivateKey(dBytes), doc.Crv, keys.ClassPrivate, nil
	default:
		return nil, "", "", webcrypto.NewTypeError("unsupported OKP curve %q", doc.Crv)
	}
}
