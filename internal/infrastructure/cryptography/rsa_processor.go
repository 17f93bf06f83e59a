package cryptography

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"hash"
	"math/big"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// rsaProcessor struct that implements the RSAProcessor interface
type rsaProcessor struct {
	logger logger.Logger
}

// NewRSAProcessor creates and returns a new instance of rsaProcessor
func NewRSAProcessor(logger logger.Logger) (cryptoalg.RSAProcessor, error) {
	return &rsaProcessor{
		logger: logger,
	}, nil
}

// GenerateKeys derives an RSA key pair. The public exponent must be exactly
// 3 or 65537 and the modulus length one of 1024, 2048 or 4096.
func (p *rsaProcessor) GenerateKeys(modulusLength int, publicExponent uint64) (*rsa.PrivateKey, error) {
	switch modulusLength {
	case 1024, 2048, 4096:
	default:
		return nil, webcrypto.NewOperationError("modulus length %d not supported for RSA", modulusLength)
	}
	if publicExponent != 3 && publicExponent != 65537 {
		return nil, webcrypto.NewOperationError("public exponent must be 3 or 65537, got %d", publicExponent)
	}

	var privateKey *rsa.PrivateKey
	var err error
	if publicExponent == 65537 {
		privateKey, err = rsa.GenerateKey(rand.Reader, modulusLength)
	} else {
		privateKey, err = generateKeyForExponent(modulusLength, publicExponent)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA keys: %w", err)
	}

	p.logger.Info("Generated RSA key pairs")
	return privateKey, nil
}

// generateKeyForExponent assembles a key pair from primitive prime generation
// for exponents the default generator does not support.
func generateKeyForExponent(bits int, e uint64) (*rsa.PrivateKey, error) {
	eBig := new(big.Int).SetUint64(e)
	one := big.NewInt(1)

	for {
		p, err := rand.Prime(rand.Reader, bits/2)
		if err != nil {
			return nil, err
		}
		q, err := rand.Prime(rand.Reader, bits-bits/2)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		if n.BitLen() != bits {
			continue
		}

		pMinus1 := new(big.Int).Sub(p, one)
		qMinus1 := new(big.Int).Sub(q, one)
		phi := new(big.Int).Mul(pMinus1, qMinus1)

		d := new(big.Int)
		if d.ModInverse(eBig, phi) == nil {
			continue
		}

		key := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: n, E: int(e)},
			D:         d,
			Primes:    []*big.Int{p, q},
		}
		key.Precompute()
		if err := key.Validate(); err != nil {
			continue
		}
		return key, nil
	}
}

func signatureHash(hashName string) (crypto.Hash, hash.Hash, error) {
	cryptoHash, newHash, err := hashByName(hashName)
	if err != nil {
		return 0, nil, err
	}
	return cryptoHash, newHash(), nil
}

// SignPKCS1v15 signs data hashed with the named hash.
func (p *rsaProcessor) SignPKCS1v15(priv *rsa.PrivateKey, hashName string, data []byte) ([]byte, error) {
	cryptoHash, h, err := signatureHash(hashName)
	if err != nil {
		return nil, err
	}
	h.Write(data)

	signature, err := rsa.SignPKCS1v15(rand.Reader, priv, cryptoHash, h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to sign data: %w", err)
	}

	p.logger.Info("RSA PKCS#1 v1.5 signing succeeded")
	return signature, nil
}

// VerifyPKCS1v15 verifies a PKCS#1 v1.5 signature.
func (p *rsaProcessor) VerifyPKCS1v15(pub *rsa.PublicKey, hashName string, signature, data []byte) (bool, error) {
	cryptoHash, h, err := signatureHash(hashName)
	if err != nil {
		return false, err
	}
	h.Write(data)

	if err := rsa.VerifyPKCS1v15(pub, cryptoHash, h.Sum(nil), signature); err != nil {
		return false, nil
	}
	return true, nil
}

// SignPSS signs data with RSA-PSS using the given salt length in bytes.
func (p *rsaProcessor) SignPSS(priv *rsa.PrivateKey, hashName string, saltLength int, data []byte) ([]byte, error) {
	cryptoHash, h, err := signatureHash(hashName)
	if err != nil {
		return nil, err
	}
	h.Write(data)

	opts := &rsa.PSSOptions{SaltLength: saltLength, Hash: cryptoHash}
	signature, err := rsa.SignPSS(rand.Reader, priv, cryptoHash, h.Sum(nil), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to sign data: %w", err)
	}

	p.logger.Info("RSA-PSS signing succeeded")
	return signature, nil
}

// VerifyPSS verifies an RSA-PSS signature.
func (p *rsaProcessor) VerifyPSS(pub *rsa.PublicKey, hashName string, saltLength int, signature, data []byte) (bool, error) {
	cryptoHash, h, err := signatureHash(hashName)
	if err != nil {
		return false, err
	}
	h.Write(data)

	opts := &rsa.PSSOptions{SaltLength: saltLength, Hash: cryptoHash}
	if err := rsa.VerifyPSS(pub, cryptoHash, h.Sum(nil), signature, opts); err != nil {
		return false, nil
	}
	return true, nil
}

// mgf1 concatenates Hash(seed || BE32(counter)) for counter = 0, 1, 2, ...
// and truncates to length bytes.
func mgf1(seed []byte, length int, newHash func() hash.Hash) []byte {
	var out []byte
	var counter [4]byte
	h := newHash()
	for i := uint32(0); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		out = h.Sum(out)
	}
	return out[:length]
}

// EncryptOAEP builds the OAEP block for plaintext under the optional label
// and applies the raw public-key operation.
func (p *rsaProcessor) EncryptOAEP(pub *rsa.PublicKey, hashName string, label, plaintext []byte) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	k := pub.Size()
	h := newHash()
	hLen := h.Size()

	if len(plaintext) > k-2*hLen-2 {
		return nil, webcrypto.NewOperationError("message too long for RSA-OAEP with a %d-bit modulus", k*8)
	}

	h.Write(label)
	lHash := h.Sum(nil)

	// db = lHash || PS || 0x01 || message
	db := make([]byte, k-hLen-1)
	copy(db, lHash)
	db[len(db)-len(plaintext)-1] = 0x01
	copy(db[len(db)-len(plaintext):], plaintext)

	seed := make([]byte, hLen)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to draw OAEP seed: %w", err)
	}

	xorBytes(db, db, mgf1(seed, len(db), newHash))
	xorBytes(seed, seed, mgf1(db, hLen, newHash))

	em := make([]byte, k)
	copy(em[1:1+hLen], seed)
	copy(em[1+hLen:], db)

	ciphertext := rawPublicOp(pub, em)

	p.logger.Info("RSA-OAEP encryption succeeded")
	return ciphertext, nil
}

// DecryptOAEP reverses the raw private-key operation and unpads. Every
// unpadding failure surfaces as the one generic decryption error so distinct
// causes are indistinguishable to a caller.
func (p *rsaProcessor) DecryptOAEP(priv *rsa.PrivateKey, hashName string, label, ciphertext []byte) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	k := priv.Size()
	h := newHash()
	hLen := h.Size()

	if len(ciphertext) != k || k < 2*hLen+2 {
		return nil, webcrypto.ErrDecryptionFailed
	}

	em := rawPrivateOp(priv, ciphertext)
	if em[0] != 0x00 {
		return nil, webcrypto.ErrDecryptionFailed
	}

	seed := append([]byte(nil), em[1:1+hLen]...)
	db := append([]byte(nil), em[1+hLen:]...)

	xorBytes(seed, seed, mgf1(db, hLen, newHash))
	xorBytes(db, db, mgf1(seed, len(db), newHash))

	h.Write(label)
	lHash := h.Sum(nil)
	for i := 0; i < hLen; i++ {
		if db[i] != lHash[i] {
			return nil, webcrypto.ErrDecryptionFailed
		}
	}

	rest := db[hLen:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case 0x00:
		case 0x01:
			p.logger.Info("RSA-OAEP decryption succeeded")
			return append([]byte(nil), rest[i+1:]...), nil
		default:
			return nil, webcrypto.ErrDecryptionFailed
		}
	}
	return nil, webcrypto.ErrDecryptionFailed
}

// rawPublicOp is the unpadded RSA operation m^e mod n, left-padded to the
// modulus size.
func rawPublicOp(pub *rsa.PublicKey, block []byte) []byte {
	m := new(big.Int).SetBytes(block)
	c := new(big.Int).Exp(m, big.NewInt(int64(pub.E)), pub.N)
	return leftPad(c.Bytes(), pub.Size())
}

// rawPrivateOp is the unpadded RSA operation c^d mod n, left-padded to the
// modulus size.
func rawPrivateOp(priv *rsa.PrivateKey, block []byte) []byte {
	c := new(big.Int).SetBytes(block)
	m := new(big.Int).Exp(c, priv.D, priv.N)
	return leftPad(m.Bytes(), priv.Size())
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
