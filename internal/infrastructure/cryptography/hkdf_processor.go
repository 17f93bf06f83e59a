package cryptography

import (
	"crypto/hmac"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// hkdfProcessor struct that implements the HKDFProcessor interface
type hkdfProcessor struct {
	logger logger.Logger
}

// NewHKDFProcessor creates and returns a new instance of hkdfProcessor
func NewHKDFProcessor(logger logger.Logger) (cryptoalg.HKDFProcessor, error) {
	return &hkdfProcessor{
		logger: logger,
	}, nil
}

// DeriveBits is the RFC 5869 extract-and-expand derivation. PRK =
// HMAC(salt, secret); T(i) = HMAC(PRK, T(i-1) || info || byte(i)); the
// concatenated T blocks are truncated to the requested length.
func (p *hkdfProcessor) DeriveBits(secret, salt, info []byte, hashName string, lengthBits int) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}
	hashLen := newHash().Size()

	if lengthBits <= 0 {
		return nil, webcrypto.NewOperationError("cannot derive %d bits", lengthBits)
	}
	byteLength := (lengthBits + 7) / 8
	if byteLength > 255*hashLen {
		return nil, webcrypto.NewOperationError("requested HKDF output of %d bytes exceeds the %d-byte maximum", byteLength, 255*hashLen)
	}

	// Extract. An absent salt is a string of hashLen zero bytes.
	if len(salt) == 0 {
		salt = make([]byte, hashLen)
	}
	extract := hmac.New(newHash, salt)
	extract.Write(secret)
	prk := extract.Sum(nil)

	// Expand.
	okm := make([]byte, 0, byteLength+hashLen)
	var block []byte
	for i := byte(1); len(okm) < byteLength; i++ {
		expand := hmac.New(newHash, prk)
		expand.Write(block)
		expand.Write(info)
		expand.Write([]byte{i})
		block = expand.Sum(nil)
		okm = append(okm, block...)
	}

	bits, err := truncateBits(okm[:byteLength], lengthBits)
	if err != nil {
		return nil, err
	}

	p.logger.Info("HKDF derivation succeeded")
	return bits, nil
}
