package cryptography

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/sign/ed448"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// okpProcessor struct that implements the OKPProcessor interface
type okpProcessor struct {
	logger logger.Logger
}

// NewOKPProcessor creates and returns a new instance of okpProcessor
func NewOKPProcessor(logger logger.Logger) (cryptoalg.OKPProcessor, error) {
	return &okpProcessor{
		logger: logger,
	}, nil
}

// GenerateKeys derives a key pair on the named curve and returns the private
// key, which carries or can recover its public half.
func (p *okpProcessor) GenerateKeys(namedCurve string) (interface{}, error) {
	switch namedCurve {
	case webcrypto.CurveEd25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Ed25519 keys: %w", err)
		}
		p.logger.Info("Generated Ed25519 key pair")
		return priv, nil

	case webcrypto.CurveEd448:
		_, priv, err := ed448.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Ed448 keys: %w", err)
		}
		p.logger.Info("Generated Ed448 key pair")
		return priv, nil

	case webcrypto.CurveX25519:
		priv, err := ecdh.X25519().GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate X25519 keys: %w", err)
		}
		p.logger.Info("Generated X25519 key pair")
		return priv, nil

	case webcrypto.CurveX448:
		scalar := make([]byte, x448.Size)
		if _, err := rand.Read(scalar); err != nil {
			return nil, fmt.Errorf("failed to generate X448 keys: %w", err)
		}
		p.logger.Info("Generated X448 key pair")
		return cryptoalg.X448PrivateKey(scalar), nil

	default:
		return nil, webcrypto.NewOperationError("unknown curve: %s", namedCurve)
	}
}

// Sign signs data with an Ed25519 or Ed448 private key.
func (p *okpProcessor) Sign(priv interface{}, data []byte) ([]byte, error) {
	switch key := priv.(type) {
	case ed25519.PrivateKey:
		signature := ed25519.Sign(key, data)
		p.logger.Info("Ed25519 signing succeeded")
		return signature, nil
	case ed448.PrivateKey:
		signature := ed448.Sign(key, data, "")
		p.logger.Info("Ed448 signing succeeded")
		return signature, nil
	default:
		return nil, webcrypto.NewTypeError("expected an Edwards-curve private key, got %T", priv)
	}
}

// Verify checks an EdDSA signature.
func (p *okpProcessor) Verify(pub interface{}, signature, data []byte) (bool, error) {
	switch key := pub.(type) {
	case ed25519.PublicKey:
		if len(signature) != ed25519.SignatureSize {
			return false, nil
		}
		return ed25519.Verify(key, data, signature), nil
	case ed448.PublicKey:
		if len(signature) != ed448.SignatureSize {
			return false, nil
		}
		return ed448.Verify(key, data, signature, ""), nil
	default:
		return false, webcrypto.NewTypeError("expected an Edwards-curve public key, got %T", pub)
	}
}

// DeriveBits performs X25519 or X448 key agreement and truncates the shared
// secret to lengthBits.
func (p *okpProcessor) DeriveBits(priv, pub interface{}, lengthBits int) ([]byte, error) {
	var shared []byte

	switch key := priv.(type) {
	case *ecdh.PrivateKey:
		peer, ok := pub.(*ecdh.PublicKey)
		if !ok {
			return nil, webcrypto.NewTypeError("expected an X25519 public key, got %T", pub)
		}
		secret, err := key.ECDH(peer)
		if err != nil {
			return nil, fmt.Errorf("X25519 agreement failed: %w", err)
		}
		shared = secret

	case cryptoalg.X448PrivateKey:
		peer, ok := pub.(cryptoalg.X448PublicKey)
		if !ok {
			return nil, webcrypto.NewTypeError("expected an X448 public key, got %T", pub)
		}
		if len(key) != x448.Size || len(peer) != x448.Size {
			return nil, webcrypto.NewCryptoError("invalid X448 key length")
		}
		var z, x, y x448.Key
		copy(x[:], key)
		copy(y[:], peer)
		if !x448.Shared(&z, &x, &y) {
			return nil, webcrypto.NewCryptoError("X448 agreement produced a low-order point")
		}
		shared = z[:]

	default:
		return nil, webcrypto.NewTypeError("expected a Montgomery-curve private key, got %T", priv)
	}

	bits, err := truncateBits(shared, lengthBits)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Montgomery-curve derivation succeeded")
	return bits, nil
}
