package v1

import (
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// GenerateKeyRequest carries the parameters of a generateKey call. Byte
// slices travel as base64 strings, the JSON default.
type GenerateKeyRequest struct {
	Algorithm   *keys.Algorithm `json:"algorithm" binding:"required"`
	Extractable bool            `json:"extractable"`
	Usages      []string        `json:"usages"`
}

// GenerateKeyResponse returns the created handle or handle pair. Handles
// serialize with their sealed snapshot, so a client can keep using them
// across a service restart.
type GenerateKeyResponse struct {
	SecretKey  *keys.Handle `json:"secretKey,omitempty"`
	PublicKey  *keys.Handle `json:"publicKey,omitempty"`
	PrivateKey *keys.Handle `json:"privateKey,omitempty"`
}

// ImportKeyRequest carries the parameters of an importKey call.
type ImportKeyRequest struct {
	Format      string          `json:"format" binding:"required"`
	KeyData     []byte          `json:"keyData" binding:"required"`
	Algorithm   *keys.Algorithm `json:"algorithm" binding:"required"`
	Extractable bool            `json:"extractable"`
	Usages      []string        `json:"usages"`
}

// ImportKeyResponse returns the registered handle.
type ImportKeyResponse struct {
	Key *keys.Handle `json:"key"`
}

// ExportKeyRequest carries the parameters of an exportKey call.
type ExportKeyRequest struct {
	Format string       `json:"format" binding:"required"`
	Key    *keys.Handle `json:"key" binding:"required"`
}

// ExportKeyResponse returns the encoded key. JWK documents arrive as the
// base64 of their JSON serialization.
type ExportKeyResponse struct {
	Data []byte `json:"data"`
}

// CipherRequest carries an encrypt, decrypt or sign call.
type CipherRequest struct {
	Algorithm *keys.Algorithm `json:"algorithm" binding:"required"`
	Key       *keys.Handle    `json:"key" binding:"required"`
	Data      []byte          `json:"data"`
}

// CipherResponse returns ciphertext, plaintext or a signature.
type CipherResponse struct {
	Data []byte `json:"data"`
}

// VerifyRequest carries a verify call.
type VerifyRequest struct {
	Algorithm *keys.Algorithm `json:"algorithm" binding:"required"`
	Key       *keys.Handle    `json:"key" binding:"required"`
	Signature []byte          `json:"signature" binding:"required"`
	Data      []byte          `json:"data"`
}

// VerifyResponse returns the verification outcome.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// DeriveBitsRequest carries a deriveBits call.
type DeriveBitsRequest struct {
	Algorithm *keys.Algorithm `json:"algorithm" binding:"required"`
	Key       *keys.Handle    `json:"key" binding:"required"`
	Length    int             `json:"length" binding:"required"`
}

// DigestRequest carries a digest call.
type DigestRequest struct {
	Algorithm *keys.Algorithm `json:"algorithm" binding:"required"`
	Data      []byte          `json:"data"`
}
