package app

import (
	"context"
	"fmt"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/cryptography"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// Subtle is the capability surface over the full provider table. The table
// is built once at construction and never mutated, so lookups are safe from
// any goroutine.
type Subtle struct {
	registry  keys.Registry
	providers map[string]webcrypto.Provider
	logger    logger.Logger
}

// NewSubtle builds the engines and the static provider table.
func NewSubtle(registry keys.Registry, log logger.Logger) (*Subtle, error) {
	aesEngine, err := cryptography.NewAESProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES processor: %w", err)
	}
	cmacEngine, err := cryptography.NewCMACProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES-CMAC processor: %w", err)
	}
	desEngine, err := cryptography.NewDESProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DES processor: %w", err)
	}
	rsaEngine, err := cryptography.NewRSAProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA processor: %w", err)
	}
	ecEngine, err := cryptography.NewECProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create EC processor: %w", err)
	}
	okpEngine, err := cryptography.NewOKPProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OKP processor: %w", err)
	}
	hmacEngine, err := cryptography.NewHMACProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create HMAC processor: %w", err)
	}
	shaEngine, err := cryptography.NewSHAProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create SHA processor: %w", err)
	}
	hkdfEngine, err := cryptography.NewHKDFProcessor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create HKDF processor: %w", err)
	}
	pbkdf2Engine, err := cryptography.NewPBKDF2Processor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create PBKDF2 processor: %w", err)
	}

	providers := []webcrypto.Provider{
		newAESProvider(webcrypto.AlgAESCBC, cryptoalg.AESModeCBC, aesEngine, registry, log),
		newAESProvider(webcrypto.AlgAESCTR, cryptoalg.AESModeCTR, aesEngine, registry, log),
		newAESProvider(webcrypto.AlgAESGCM, cryptoalg.AESModeGCM, aesEngine, registry, log),
		newAESProvider(webcrypto.AlgAESECB, cryptoalg.AESModeECB, aesEngine, registry, log),
		newAESProvider(webcrypto.AlgAESKW, cryptoalg.AESModeKW, aesEngine, registry, log),
		newCMACProvider(cmacEngine, registry, log),
		newDESProvider(webcrypto.AlgDESCBC, 64, desEngine, registry, log),
		newDESProvider(webcrypto.AlgDESEDE3CBC, 192, desEngine, registry, log),
		newRSAProvider(webcrypto.AlgRSASSA, rsaEngine, registry, log),
		newRSAProvider(webcrypto.AlgRSAPSS, rsaEngine, registry, log),
		newRSAProvider(webcrypto.AlgRSAOAEP, rsaEngine, registry, log),
		newECProvider(webcrypto.AlgECDSA, ecEngine, registry, log),
		newECProvider(webcrypto.AlgECDH, ecEngine, registry, log),
		newOKPProvider(webcrypto.AlgEd25519, okpEngine, registry, log),
		newOKPProvider(webcrypto.AlgEd448, okpEngine, registry, log),
		newOKPProvider(webcrypto.AlgX25519, okpEngine, registry, log),
		newOKPProvider(webcrypto.AlgX448, okpEngine, registry, log),
		newHMACProvider(hmacEngine, registry, log),
		newHKDFProvider(hkdfEngine, registry, log),
		newPBKDF2Provider(pbkdf2Engine, registry, log),
		newSHAProvider(webcrypto.AlgSHA1, shaEngine, log),
		newSHAProvider(webcrypto.AlgSHA256, shaEngine, log),
		newSHAProvider(webcrypto.AlgSHA384, shaEngine, log),
		newSHAProvider(webcrypto.AlgSHA512, shaEngine, log),
	}

	table := make(map[string]webcrypto.Provider, len(providers))
	for _, p := range providers {
		table[p.Name()] = p
	}

	log.Info("Provider table initialized with ", len(table), " algorithms")
	return &Subtle{registry: registry, providers: table, logger: log}, nil
}

// Provider returns the provider registered for an algorithm name.
func (s *Subtle) Provider(name string) (webcrypto.Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, webcrypto.NewOperationError("unrecognized algorithm name: %s", name)
	}
	return p, nil
}

func (s *Subtle) provider(alg *keys.Algorithm) (webcrypto.Provider, error) {
	if alg == nil {
		return nil, webcrypto.NewOperationError("no algorithm supplied")
	}
	return s.Provider(alg.Name)
}

// GenerateKey creates a new key or key pair under alg.Name.
func (s *Subtle) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.GenerateKey(ctx, alg, extractable, usages)
}

// ImportKey decodes external key data and registers the material.
func (s *Subtle) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.ImportKey(ctx, format, keyData, alg, extractable, usages)
}

// ExportKey encodes a handle's material. The provider is selected by the
// algorithm frozen onto the handle.
func (s *Subtle) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	if handle == nil {
		return nil, webcrypto.NewTypeError("no key handle supplied")
	}
	p, err := s.provider(handle.Algorithm)
	if err != nil {
		return nil, err
	}
	return p.ExportKey(ctx, format, handle)
}

// Encrypt enciphers data under the handle's key.
func (s *Subtle) Encrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.Encrypt(ctx, alg, handle, data)
}

// Decrypt deciphers data under the handle's key.
func (s *Subtle) Decrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.Decrypt(ctx, alg, handle, data)
}

// Sign computes a signature or MAC over data.
func (s *Subtle) Sign(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.Sign(ctx, alg, handle, data)
}

// Verify checks a signature or MAC over data.
func (s *Subtle) Verify(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	p, err := s.provider(alg)
	if err != nil {
		return false, err
	}
	return p.Verify(ctx, alg, handle, signature, data)
}

// DeriveBits derives lengthBits of keying material.
func (s *Subtle) DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.DeriveBits(ctx, alg, handle, lengthBits)
}

// Digest hashes data with alg.Name.
func (s *Subtle) Digest(ctx context.Context, alg *keys.Algorithm, data []byte) ([]byte, error) {
	p, err := s.provider(alg)
	if err != nil {
		return nil, err
	}
	return p.Digest(ctx, alg, data)
}

// CheckCryptoKey runs the usage and variant check of the handle's own
// algorithm provider.
func (s *Subtle) CheckCryptoKey(ctx context.Context, handle *keys.Handle, usage string) error {
	if handle == nil {
		return webcrypto.NewTypeError("no key handle supplied")
	}
	p, err := s.provider(handle.Algorithm)
	if err != nil {
		return err
	}
	return p.CheckCryptoKey(ctx, handle, usage)
}
