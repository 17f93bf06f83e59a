package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

var kdfUsages = []string{webcrypto.UsageDeriveKey, webcrypto.UsageDeriveBits}

// hkdfProvider serves HKDF. The base secret is imported, never generated,
// and is not extractable.
type hkdfProvider struct {
	baseProvider
	keyChecker
	engine cryptoalg.HKDFProcessor
	logger logger.Logger
}

func newHKDFProvider(engine cryptoalg.HKDFProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &hkdfProvider{
		baseProvider: baseProvider{name: webcrypto.AlgHKDF},
		keyChecker:   keyChecker{algName: webcrypto.AlgHKDF, family: keys.FamilyHKDF, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

// ImportKey accepts the base secret in raw form only.
func (p *hkdfProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	return importKDFSecret(ctx, p.name, keys.FamilyHKDF, &p.keyChecker, format, keyData, alg, extractable, usages)
}

// DeriveBits runs extract-and-expand with the salt and info of this call.
func (p *hkdfProvider) DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageDeriveBits)
	if err != nil {
		return nil, err
	}
	if alg.Hash == "" {
		return nil, webcrypto.NewOperationError("HKDF requires a hash algorithm")
	}
	return p.engine.DeriveBits(material.Raw, alg.Salt, alg.Info, alg.Hash, lengthBits)
}

// pbkdf2Provider serves PBKDF2 over an imported password.
type pbkdf2Provider struct {
	baseProvider
	keyChecker
	engine cryptoalg.PBKDF2Processor
	logger logger.Logger
}

func newPBKDF2Provider(engine cryptoalg.PBKDF2Processor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &pbkdf2Provider{
		baseProvider: baseProvider{name: webcrypto.AlgPBKDF2},
		keyChecker:   keyChecker{algName: webcrypto.AlgPBKDF2, family: keys.FamilyPBKDF2, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

// ImportKey accepts the password in raw form only.
func (p *pbkdf2Provider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	return importKDFSecret(ctx, p.name, keys.FamilyPBKDF2, &p.keyChecker, format, keyData, alg, extractable, usages)
}

// DeriveBits derives with the salt and iteration count of this call.
func (p *pbkdf2Provider) DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageDeriveBits)
	if err != nil {
		return nil, err
	}
	if alg.Hash == "" {
		return nil, webcrypto.NewOperationError("PBKDF2 requires a hash algorithm")
	}
	return p.engine.DeriveBits(material.Raw, alg.Salt, alg.Iterations, alg.Hash, lengthBits)
}

// importKDFSecret is the shared import path of the two derivation
// algorithms: raw format only, never extractable.
func importKDFSecret(ctx context.Context, name, family string, checker *keyChecker, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	if err := validateUsages(usages, kdfUsages); err != nil {
		return nil, err
	}
	if format != webcrypto.FormatRaw {
		return nil, webcrypto.NewOperationError("unsupported import format %q for %s", format, name)
	}
	if extractable {
		return nil, webcrypto.NewOperationError("%s keys cannot be extractable", name)
	}

	kp := alg.KeyParams()
	kp.Name = name
	material := keys.NewSecretKeyMaterial(family, append([]byte(nil), keyData...), kp, false, usages)
	return checker.registry.Register(ctx, material)
}
