package cryptography

import (
	"crypto/cipher"
	"crypto/des" // #nosec G502 -- DES is part of the supported algorithm catalogue
	"crypto/rand"
	"fmt"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// desProcessor struct that implements the DESProcessor interface
type desProcessor struct {
	logger logger.Logger
}

// NewDESProcessor creates and returns a new instance of desProcessor
func NewDESProcessor(logger logger.Logger) (cryptoalg.DESProcessor, error) {
	return &desProcessor{
		logger: logger,
	}, nil
}

// GenerateKey draws a random key. 64 bits selects single DES, 192 bits
// selects three-key triple DES.
func (p *desProcessor) GenerateKey(lengthBits int) ([]byte, error) {
	switch lengthBits {
	case 64, 192:
	default:
		return nil, webcrypto.NewOperationError("key length %d not supported for DES", lengthBits)
	}

	key := make([]byte, lengthBits/8)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate DES key: %w", err)
	}

	p.logger.Info("Generated DES key")
	return key, nil
}

func (p *desProcessor) newCipher(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 8:
		block, err := des.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize DES cipher: %w", err)
		}
		return block, nil
	case 24:
		block, err := des.NewTripleDESCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize 3DES cipher: %w", err)
		}
		return block, nil
	default:
		return nil, webcrypto.NewOperationError("DES key must be 8 or 24 bytes, got %d", len(key))
	}
}

// Encrypt enciphers plaintext in CBC mode with PKCS#7 padding.
func (p *desProcessor) Encrypt(iv, key, plaintext []byte) ([]byte, error) {
	block, err := p.newCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != des.BlockSize {
		return nil, webcrypto.NewOperationError("DES-CBC requires an %d-byte IV", des.BlockSize)
	}

	padded := pkcs7Pad(plaintext, des.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt deciphers CBC ciphertext and strips the padding.
func (p *desProcessor) Decrypt(iv, key, ciphertext []byte) ([]byte, error) {
	block, err := p.newCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != des.BlockSize {
		return nil, webcrypto.NewOperationError("DES-CBC requires an %d-byte IV", des.BlockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%des.BlockSize != 0 {
		return nil, webcrypto.NewCryptoError("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, des.BlockSize)
}
