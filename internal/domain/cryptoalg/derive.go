package cryptoalg

// HMACProcessor computes and verifies HMAC MACs with a configurable hash.
type HMACProcessor interface {
	// GenerateKey draws a random key. When lengthBits is zero the hash
	// block size is used, matching the WebCrypto default.
	GenerateKey(hashName string, lengthBits int) ([]byte, error)

	// Sign computes the MAC of data under key.
	Sign(key []byte, hashName string, data []byte) ([]byte, error)

	// Verify recomputes the MAC and compares in constant time.
	Verify(key []byte, hashName string, mac, data []byte) (bool, error)
}

// SHAProcessor exposes the SHA digest family.
type SHAProcessor interface {
	// Digest hashes data with the named hash.
	Digest(hashName string, data []byte) ([]byte, error)
}

// HKDFProcessor is the RFC 5869 extract-and-expand derivation, implemented
// from first principles over the HMAC primitive.
type HKDFProcessor interface {
	// DeriveBits extracts a PRK from secret and salt, expands it with info
	// and returns lengthBits of output keying material.
	DeriveBits(secret, salt, info []byte, hashName string, lengthBits int) ([]byte, error)
}

// PBKDF2Processor delegates to the primitive PBKDF2 routine.
type PBKDF2Processor interface {
	// DeriveBits derives lengthBits from the password with the given salt
	// and iteration count.
	DeriveBits(password, salt []byte, iterations int, hashName string, lengthBits int) ([]byte, error)
}
