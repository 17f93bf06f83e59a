package cryptography

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// ecProcessor struct that implements the ECProcessor interface
type ecProcessor struct {
	logger logger.Logger
}

// NewECProcessor creates and returns a new instance of ecProcessor
func NewECProcessor(logger logger.Logger) (cryptoalg.ECProcessor, error) {
	return &ecProcessor{
		logger: logger,
	}, nil
}

// GenerateKeys derives a key pair on the named curve.
// Supported curves: P-256, P-384, P-521, K-256.
func (p *ecProcessor) GenerateKeys(namedCurve string) (interface{}, error) {
	if namedCurve == webcrypto.CurveK256 {
		privateKey, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate elliptic curve keys: %w", err)
		}
		p.logger.Info("Generated EC key pairs")
		return privateKey, nil
	}

	curve, err := codec.EllipticCurveByName(namedCurve)
	if err != nil {
		return nil, err
	}
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate elliptic curve keys: %w", err)
	}

	p.logger.Info("Generated EC key pairs")
	return privateKey, nil
}

// Sign hashes data with the named hash and returns the raw fixed-width r||s
// signature. The primitive signer produces the ASN.1 form internally.
func (p *ecProcessor) Sign(priv interface{}, hashName string, data []byte) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(data)
	digest := h.Sum(nil)

	var der []byte
	var namedCurve string

	switch key := priv.(type) {
	case *ecdsa.PrivateKey:
		namedCurve, err = codec.CurveNameOf(key.Curve)
		if err != nil {
			return nil, err
		}
		der, err = ecdsa.SignASN1(rand.Reader, key, digest)
		if err != nil {
			return nil, fmt.Errorf("failed to sign message: %w", err)
		}
	case *secp256k1.PrivateKey:
		namedCurve = webcrypto.CurveK256
		der = secpecdsa.Sign(key, digest).Serialize()
	default:
		return nil, webcrypto.NewTypeError("expected an EC private key, got %T", priv)
	}

	raw, err := codec.ASN1SignatureToRaw(der, namedCurve)
	if err != nil {
		return nil, err
	}

	p.logger.Info("ECDSA signing succeeded")
	return raw, nil
}

// Verify checks a raw r||s signature. A signature whose length is not twice
// the curve point size is rejected before verification.
func (p *ecProcessor) Verify(pub interface{}, hashName string, signature, data []byte) (bool, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return false, err
	}
	h := newHash()
	h.Write(data)
	digest := h.Sum(nil)

	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		namedCurve, err := codec.CurveNameOf(key.Curve)
		if err != nil {
			return false, err
		}
		der, err := codec.RawSignatureToASN1(signature, namedCurve)
		if err != nil {
			return false, err
		}
		return ecdsa.VerifyASN1(key, digest, der), nil

	case *secp256k1.PublicKey:
		der, err := codec.RawSignatureToASN1(signature, webcrypto.CurveK256)
		if err != nil {
			return false, err
		}
		sig, err := secpecdsa.ParseDERSignature(der)
		if err != nil {
			return false, nil
		}
		return sig.Verify(digest, key), nil

	default:
		return false, webcrypto.NewTypeError("expected an EC public key, got %T", pub)
	}
}

// DeriveBits performs ECDH and truncates the shared secret to lengthBits.
func (p *ecProcessor) DeriveBits(priv, pub interface{}, lengthBits int) ([]byte, error) {
	var shared []byte

	switch key := priv.(type) {
	case *ecdsa.PrivateKey:
		peer, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return nil, webcrypto.NewTypeError("expected an EC public key, got %T", pub)
		}
		ecdhPriv, err := key.ECDH()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare ECDH private key: %w", err)
		}
		ecdhPub, err := peer.ECDH()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare ECDH public key: %w", err)
		}
		shared, err = ecdhPriv.ECDH(ecdhPub)
		if err != nil {
			return nil, fmt.Errorf("ECDH agreement failed: %w", err)
		}

	case *secp256k1.PrivateKey:
		peer, ok := pub.(*secp256k1.PublicKey)
		if !ok {
			return nil, webcrypto.NewTypeError("expected an EC public key, got %T", pub)
		}
		shared = secp256k1.GenerateSharedSecret(key, peer)

	default:
		return nil, webcrypto.NewTypeError("expected an EC private key, got %T", priv)
	}

	bits, err := truncateBits(shared, lengthBits)
	if err != nil {
		return nil, err
	}

	p.logger.Info("ECDH derivation succeeded")
	return bits, nil
}
