package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// hmacProvider serves HMAC with a hash fixed at key creation.
type hmacProvider struct {
	baseProvider
	keyChecker
	engine cryptoalg.HMACProcessor
	logger logger.Logger
}

func newHMACProvider(engine cryptoalg.HMACProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &hmacProvider{
		baseProvider: baseProvider{name: webcrypto.AlgHMAC},
		keyChecker:   keyChecker{algName: webcrypto.AlgHMAC, family: keys.FamilyHMAC, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

var hmacUsages = []string{webcrypto.UsageSign, webcrypto.UsageVerify}

// GenerateKey draws a random key. The length defaults to the hash block
// size when alg.Length is zero.
func (p *hmacProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, hmacUsages); err != nil {
		return nil, err
	}
	if alg.Hash == "" {
		return nil, webcrypto.NewOperationError("HMAC requires a hash algorithm")
	}

	raw, err := p.engine.GenerateKey(alg.Hash, alg.Length)
	if err != nil {
		return nil, err
	}

	handle, err := p.registerSecret(ctx, raw, alg, extractable, usages)
	if err != nil {
		return nil, err
	}
	return &webcrypto.GeneratedKey{SecretKey: handle}, nil
}

// ImportKey accepts raw secret bytes or an oct JWK.
func (p *hmacProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	if err := validateUsages(usages, hmacUsages); err != nil {
		return nil, err
	}
	if alg.Hash == "" {
		return nil, webcrypto.NewOperationError("HMAC requires a hash algorithm")
	}

	raw, err := importSecretBytes(format, keyData, p.name, alg.Hash, extractable, usages)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, webcrypto.NewOperationError("HMAC keys cannot be empty")
	}

	return p.registerSecret(ctx, raw, alg, extractable, usages)
}

// ExportKey renders the key as raw bytes or an oct JWK.
func (p *hmacProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportSecret(material, format)
}

// Sign computes the MAC of data with the key's hash.
func (p *hmacProvider) Sign(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageSign)
	if err != nil {
		return nil, err
	}
	return p.engine.Sign(material.Raw, materialHash(material, alg), data)
}

// Verify recomputes the MAC and compares in constant time.
func (p *hmacProvider) Verify(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageVerify)
	if err != nil {
		return false, err
	}
	return p.engine.Verify(material.Raw, materialHash(material, alg), signature, data)
}

func (p *hmacProvider) registerSecret(ctx context.Context, raw []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	kp := alg.KeyParams()
	kp.Name = p.name
	kp.Length = len(raw) * 8
	material := keys.NewSecretKeyMaterial(keys.FamilyHMAC, raw, kp, extractable, usages)
	return p.registry.Register(ctx, material)
}

// materialHash prefers the hash frozen onto the key over the one of the
// current operation.
func materialHash(material *keys.KeyMaterial, alg *keys.Algorithm) string {
	if material.Algorithm != nil && material.Algorithm.Hash != "" {
		return material.Algorithm.Hash
	}
	if alg != nil {
		return alg.Hash
	}
	return ""
}
