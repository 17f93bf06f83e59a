package webcrypto

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
)

// GeneratedKey is the result of Provider.GenerateKey. Symmetric algorithms
// populate SecretKey; asymmetric algorithms populate PublicKey and PrivateKey
// together.
type GeneratedKey struct {
	SecretKey  *keys.Handle
	PublicKey  *keys.Handle
	PrivateKey *keys.Handle
}

// Provider is the capability interface one WebCrypto algorithm name exposes
// to the dispatching layer. Every operation is a pure computation over its
// inputs plus a registry lookup; providers fail fast on unsupported
// format/parameter combinations before any engine call and never suppress
// engine errors. Operations a provider does not support return an
// OperationError.
type Provider interface {
	// Name returns the WebCrypto algorithm name the provider serves.
	Name() string

	// GenerateKey creates a new key or key pair and registers it.
	GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*GeneratedKey, error)

	// ImportKey decodes external key data in the given format and registers
	// the resulting material.
	ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error)

	// ExportKey encodes the handle's material in the given format. JWK
	// exports are returned as serialized JSON.
	ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error)

	// Encrypt enciphers data under the handle's key.
	Encrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error)

	// Decrypt deciphers data under the handle's key.
	Decrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error)

	// Sign computes a signature or MAC over data.
	Sign(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error)

	// Verify checks a signature or MAC over data.
	Verify(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error)

	// DeriveBits derives lengthBits of keying material.
	DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error)

	// Digest hashes data. Only the SHA providers support it.
	Digest(ctx context.Context, alg *keys.Algorithm, data []byte) ([]byte, error)

	// CheckCryptoKey fails if the usage is not permitted by the handle or
	// the resolved material's variant does not match the provider's family.
	CheckCryptoKey(ctx context.Context, handle *keys.Handle, usage string) error
}
