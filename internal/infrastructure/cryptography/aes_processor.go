package cryptography

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// kwInitialValue is the fixed RFC 3394 initial value.
var kwInitialValue = []byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesProcessor struct that implements the AESProcessor interface
type aesProcessor struct {
	logger logger.Logger
}

// NewAESProcessor creates and returns a new instance of aesProcessor
func NewAESProcessor(logger logger.Logger) (cryptoalg.AESProcessor, error) {
	return &aesProcessor{
		logger: logger,
	}, nil
}

// GenerateKey draws a random AES key. Supported lengths: 128, 192 and 256 bits.
func (p *aesProcessor) GenerateKey(lengthBits int) ([]byte, error) {
	switch lengthBits {
	case 128, 192, 256:
	default:
		return nil, webcrypto.NewOperationError("key length %d not supported for AES", lengthBits)
	}

	key := make([]byte, lengthBits/8)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate AES key: %w", err)
	}

	p.logger.Info("Generated AES key")
	return key, nil
}

// Encrypt enciphers plaintext under the key with the mode selected in params.
func (p *aesProcessor) Encrypt(params *cryptoalg.AESParams, key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}

	switch params.Mode {
	case cryptoalg.AESModeCBC:
		return p.encryptCBC(block, params.IV, plaintext)
	case cryptoalg.AESModeCTR:
		return p.applyCTR(block, params, plaintext)
	case cryptoalg.AESModeGCM:
		return p.encryptGCM(block, params, plaintext)
	case cryptoalg.AESModeECB:
		return p.encryptECB(block, plaintext)
	case cryptoalg.AESModeKW:
		return p.wrapKey(block, plaintext)
	default:
		return nil, webcrypto.NewOperationError("unsupported AES mode: %s", params.Mode)
	}
}

// Decrypt deciphers ciphertext under the key with the mode selected in params.
func (p *aesProcessor) Decrypt(params *cryptoalg.AESParams, key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}

	switch params.Mode {
	case cryptoalg.AESModeCBC:
		return p.decryptCBC(block, params.IV, ciphertext)
	case cryptoalg.AESModeCTR:
		return p.applyCTR(block, params, ciphertext)
	case cryptoalg.AESModeGCM:
		return p.decryptGCM(block, params, ciphertext)
	case cryptoalg.AESModeECB:
		return p.decryptECB(block, ciphertext)
	case cryptoalg.AESModeKW:
		return p.unwrapKey(block, ciphertext)
	default:
		return nil, webcrypto.NewOperationError("unsupported AES mode: %s", params.Mode)
	}
}

func (p *aesProcessor) encryptCBC(block cipher.Block, iv, plaintext []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, webcrypto.NewOperationError("AES-CBC requires a %d-byte IV", aes.BlockSize)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func (p *aesProcessor) decryptCBC(block cipher.Block, iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, webcrypto.NewOperationError("AES-CBC requires a %d-byte IV", aes.BlockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, webcrypto.NewCryptoError("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func (p *aesProcessor) applyCTR(block cipher.Block, params *cryptoalg.AESParams, data []byte) ([]byte, error) {
	if len(params.Counter) != aes.BlockSize {
		return nil, webcrypto.NewOperationError("AES-CTR requires a %d-byte counter block", aes.BlockSize)
	}
	if params.CounterLength <= 0 || params.CounterLength > 128 {
		return nil, webcrypto.NewOperationError("AES-CTR counter length must be between 1 and 128 bits")
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, params.Counter).XORKeyStream(out, data)
	return out, nil
}

func (p *aesProcessor) encryptGCM(block cipher.Block, params *cryptoalg.AESParams, plaintext []byte) ([]byte, error) {
	aead, err := p.newGCM(block, params)
	if err != nil {
		return nil, err
	}
	if len(params.IV) == 0 {
		return nil, webcrypto.NewOperationError("AES-GCM requires an IV")
	}
	// Seal appends the authentication tag after the ciphertext.
	return aead.Seal(nil, params.IV, plaintext, params.AdditionalData), nil
}

func (p *aesProcessor) decryptGCM(block cipher.Block, params *cryptoalg.AESParams, ciphertext []byte) ([]byte, error) {
	aead, err := p.newGCM(block, params)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.Overhead() {
		return nil, webcrypto.NewCryptoError("ciphertext shorter than the authentication tag")
	}
	plaintext, err := aead.Open(nil, params.IV, ciphertext, params.AdditionalData)
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "AES-GCM authentication failed")
	}
	return plaintext, nil
}

func (p *aesProcessor) newGCM(block cipher.Block, params *cryptoalg.AESParams) (cipher.AEAD, error) {
	tagLength := params.TagLength
	if tagLength == 0 {
		tagLength = cryptoalg.DefaultGCMTagLength
	}
	switch tagLength {
	case 96, 104, 112, 120, 128:
	case 32, 64:
		return nil, webcrypto.NewOperationError("AES-GCM tag length %d is not supported, the smallest supported tag is 96 bits", tagLength)
	default:
		return nil, webcrypto.NewOperationError("AES-GCM tag length must be one of 96, 104, 112, 120 or 128 bits, got %d", tagLength)
	}
	if len(params.IV) != 12 {
		// The primitive only combines a custom nonce size with the full tag.
		if tagLength != 128 {
			return nil, webcrypto.NewOperationError("AES-GCM tag length %d requires a 12-byte IV", tagLength)
		}
		aead, err := cipher.NewGCMWithNonceSize(block, len(params.IV))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCM: %w", err)
		}
		return aead, nil
	}
	aead, err := cipher.NewGCMWithTagSize(block, tagLength/8)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}
	return aead, nil
}

// ECB enciphers each block independently with a zero-length IV. It is kept
// for compatibility with key-commitment schemes, not for general use.
func (p *aesProcessor) encryptECB(block cipher.Block, plaintext []byte) ([]byte, error) {
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return out, nil
}

func (p *aesProcessor) decryptECB(block cipher.Block, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, webcrypto.NewCryptoError("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	return pkcs7Unpad(out, aes.BlockSize)
}

// wrapKey is RFC 3394 key wrapping with the fixed initial value.
func (p *aesProcessor) wrapKey(block cipher.Block, plaintext []byte) ([]byte, error) {
	if len(plaintext) < 16 || len(plaintext)%8 != 0 {
		return nil, webcrypto.NewOperationError("AES-KW input must be a multiple of 8 bytes and at least 16 bytes")
	}

	n := len(plaintext) / 8
	a := make([]byte, 8)
	copy(a, kwInitialValue)

	r := make([]byte, len(plaintext))
	copy(r, plaintext)

	buf := make([]byte, 16)
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[:8], a)
			copy(buf[8:], r[(i-1)*8:i*8])
			block.Encrypt(buf, buf)

			t := uint64(n*j + i)
			binary.BigEndian.PutUint64(a, binary.BigEndian.Uint64(buf[:8])^t)
			copy(r[(i-1)*8:i*8], buf[8:])
		}
	}

	return append(a, r...), nil
}

func (p *aesProcessor) unwrapKey(block cipher.Block, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 24 || len(ciphertext)%8 != 0 {
		return nil, webcrypto.NewCryptoError("AES-KW ciphertext must be a multiple of 8 bytes and at least 24 bytes")
	}

	n := len(ciphertext)/8 - 1
	a := make([]byte, 8)
	copy(a, ciphertext[:8])

	r := make([]byte, len(ciphertext)-8)
	copy(r, ciphertext[8:])

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			binary.BigEndian.PutUint64(buf[:8], binary.BigEndian.Uint64(a)^t)
			copy(buf[8:], r[(i-1)*8:i*8])
			block.Decrypt(buf, buf)

			copy(a, buf[:8])
			copy(r[(i-1)*8:i*8], buf[8:])
		}
	}

	if !bytes.Equal(a, kwInitialValue) {
		return nil, webcrypto.NewCryptoError("AES-KW integrity check failed")
	}
	return r, nil
}
