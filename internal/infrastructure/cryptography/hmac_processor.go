package cryptography

import (
	"crypto/hmac"
	"crypto/rand"
	"fmt"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// hmacProcessor struct that implements the HMACProcessor interface
type hmacProcessor struct {
	logger logger.Logger
}

// NewHMACProcessor creates and returns a new instance of hmacProcessor
func NewHMACProcessor(logger logger.Logger) (cryptoalg.HMACProcessor, error) {
	return &hmacProcessor{
		logger: logger,
	}, nil
}

// GenerateKey draws a random key. When lengthBits is zero the hash block
// size is used, matching the WebCrypto default.
func (p *hmacProcessor) GenerateKey(hashName string, lengthBits int) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	if lengthBits == 0 {
		lengthBits = newHash().BlockSize() * 8
	}

	key := make([]byte, (lengthBits+7)/8)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate HMAC key: %w", err)
	}

	p.logger.Info("Generated HMAC key")
	return key, nil
}

// Sign computes the MAC of data under key.
func (p *hmacProcessor) Sign(key []byte, hashName string, data []byte) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(newHash, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// Verify recomputes the MAC and compares in constant time.
func (p *hmacProcessor) Verify(key []byte, hashName string, mac, data []byte) (bool, error) {
	expected, err := p.Sign(key, hashName, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, mac), nil
}
