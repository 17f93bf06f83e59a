package cryptoalg

import "crypto/rsa"

// X448PrivateKey is a 56-byte X448 scalar. The stdlib has no X448 support,
// so the engine carries the raw scalar and delegates to the circl primitives.
type X448PrivateKey []byte

// X448PublicKey is a 56-byte X448 group element.
type X448PublicKey []byte

// RSAProcessor handles the three RSA algorithm names. PKCS#1 v1.5 and PSS
// signatures delegate to the primitive signer; OAEP padding and unpadding are
// implemented from first principles over the unpadded RSA operation.
type RSAProcessor interface {
	// GenerateKeys derives an RSA key pair. The public exponent must be
	// exactly 3 or 65537 and the modulus length one of 1024, 2048 or 4096.
	GenerateKeys(modulusLength int, publicExponent uint64) (*rsa.PrivateKey, error)

	// SignPKCS1v15 signs data hashed with the named hash.
	SignPKCS1v15(priv *rsa.PrivateKey, hashName string, data []byte) ([]byte, error)

	// VerifyPKCS1v15 verifies a PKCS#1 v1.5 signature.
	VerifyPKCS1v15(pub *rsa.PublicKey, hashName string, signature, data []byte) (bool, error)

	// SignPSS signs data with RSA-PSS using the given salt length in bytes.
	SignPSS(priv *rsa.PrivateKey, hashName string, saltLength int, data []byte) ([]byte, error)

	// VerifyPSS verifies an RSA-PSS signature.
	VerifyPSS(pub *rsa.PublicKey, hashName string, saltLength int, signature, data []byte) (bool, error)

	// EncryptOAEP builds the OAEP block for plaintext under the optional
	// label and applies the raw public-key operation.
	EncryptOAEP(pub *rsa.PublicKey, hashName string, label, plaintext []byte) ([]byte, error)

	// DecryptOAEP reverses the raw private-key operation and unpads. Every
	// unpadding failure surfaces as the one generic decryption error.
	DecryptOAEP(priv *rsa.PrivateKey, hashName string, label, ciphertext []byte) ([]byte, error)
}

// ECProcessor handles ECDSA and ECDH over the named curves P-256, P-384,
// P-521 and K-256. Keys are passed as the native types of the backing
// primitive: *ecdsa.PrivateKey/*ecdsa.PublicKey for the NIST curves and
// *secp256k1.PrivateKey/*secp256k1.PublicKey for K-256.
type ECProcessor interface {
	// GenerateKeys derives a key pair on the named curve and returns the
	// private key, which carries its public half.
	GenerateKeys(namedCurve string) (interface{}, error)

	// Sign hashes data with the named hash and returns the raw fixed-width
	// r||s signature for the key's curve.
	Sign(priv interface{}, hashName string, data []byte) ([]byte, error)

	// Verify checks a raw r||s signature. A signature whose length is not
	// twice the curve point size is rejected before verification.
	Verify(pub interface{}, hashName string, signature, data []byte) (bool, error)

	// DeriveBits performs ECDH and truncates the shared secret to
	// lengthBits.
	DeriveBits(priv, pub interface{}, lengthBits int) ([]byte, error)
}

// OKPProcessor handles the Edwards and Montgomery curve families: Ed25519
// and Ed448 signatures, X25519 and X448 key agreement. All operations
// delegate directly to the curve primitives; there is no manual padding.
type OKPProcessor interface {
	// GenerateKeys derives a key pair on the named curve and returns the
	// private key.
	GenerateKeys(namedCurve string) (interface{}, error)

	// Sign signs data with an Ed25519 or Ed448 private key.
	Sign(priv interface{}, data []byte) ([]byte, error)

	// Verify checks an EdDSA signature.
	Verify(pub interface{}, signature, data []byte) (bool, error)

	// DeriveBits performs X25519 or X448 key agreement and truncates the
	// shared secret to lengthBits.
	DeriveBits(priv, pub interface{}, lengthBits int) ([]byte, error)
}
