package cryptography

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// rb is the RFC 4493 constant folded into a subkey whenever the shifted-out
// bit of the previous value was set.
const cmacRb = 0x87

// cmacProcessor struct that implements the CMACProcessor interface
type cmacProcessor struct {
	logger logger.Logger
}

// NewCMACProcessor creates and returns a new instance of cmacProcessor
func NewCMACProcessor(logger logger.Logger) (cryptoalg.CMACProcessor, error) {
	return &cmacProcessor{
		logger: logger,
	}, nil
}

// GenerateKey draws a random AES key for CMAC use.
func (p *cmacProcessor) GenerateKey(lengthBits int) ([]byte, error) {
	switch lengthBits {
	case 128, 192, 256:
	default:
		return nil, webcrypto.NewOperationError("key length %d not supported for AES-CMAC", lengthBits)
	}

	key := make([]byte, lengthBits/8)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate AES-CMAC key: %w", err)
	}

	p.logger.Info("Generated AES-CMAC key")
	return key, nil
}

// Sign computes the RFC 4493 MAC of message under key.
func (p *cmacProcessor) Sign(key, message []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}

	// Subkeys derive from L, the encryption of the zero block.
	l := make([]byte, aes.BlockSize)
	block.Encrypt(l, l)
	subkey1 := leftShiftOne(l)
	if l[0]&0x80 != 0 {
		subkey1[aes.BlockSize-1] ^= cmacRb
	}
	subkey2 := leftShiftOne(subkey1)
	if subkey1[0]&0x80 != 0 {
		subkey2[aes.BlockSize-1] ^= cmacRb
	}

	// An empty message counts as one (padded) block.
	n := (len(message) + aes.BlockSize - 1) / aes.BlockSize
	if n == 0 {
		n = 1
	}

	last := make([]byte, aes.BlockSize)
	if len(message) > 0 && len(message)%aes.BlockSize == 0 {
		xorBytes(last, message[(n-1)*aes.BlockSize:], subkey1)
	} else {
		rem := message[(n-1)*aes.BlockSize:]
		copy(last, rem)
		last[len(rem)] = 0x80
		xorBytes(last, last, subkey2)
	}

	// Zero-IV CBC chain; the final ciphertext block is the MAC.
	x := make([]byte, aes.BlockSize)
	for i := 0; i < n-1; i++ {
		xorBytes(x, x, message[i*aes.BlockSize:(i+1)*aes.BlockSize])
		block.Encrypt(x, x)
	}
	xorBytes(x, x, last)
	block.Encrypt(x, x)

	return x, nil
}

// Verify recomputes the MAC and compares it against mac over its full length.
func (p *cmacProcessor) Verify(key, message, mac []byte) (bool, error) {
	expected, err := p.Sign(key, message)
	if err != nil {
		return false, err
	}
	if len(mac) != len(expected) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(expected, mac) == 1, nil
}

func leftShiftOne(b []byte) []byte {
	out := make([]byte, len(b))
	var carry byte
	for i := len(b) - 1; i >= 0; i-- {
		out[i] = b[i]<<1 | carry
		carry = b[i] >> 7
	}
	return out
}
