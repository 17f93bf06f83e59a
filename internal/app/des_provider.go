package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// desProvider serves DES-CBC and DES-EDE3-CBC.
type desProvider struct {
	baseProvider
	keyChecker
	lengthBits int
	engine     cryptoalg.DESProcessor
	logger     logger.Logger
}

func newDESProvider(name string, lengthBits int, engine cryptoalg.DESProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &desProvider{
		baseProvider: baseProvider{name: name},
		keyChecker:   keyChecker{algName: name, family: keys.FamilyDES, registry: registry},
		lengthBits:   lengthBits,
		engine:       engine,
		logger:       logger,
	}
}

var desUsages = []string{webcrypto.UsageEncrypt, webcrypto.UsageDecrypt, webcrypto.UsageWrapKey, webcrypto.UsageUnwrapKey}

// GenerateKey draws a fresh DES or 3DES key.
func (p *desProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, desUsages); err != nil {
		return nil, err
	}

	raw, err := p.engine.GenerateKey(p.lengthBits)
	if err != nil {
		return nil, err
	}

	handle, err := p.registerSecret(ctx, raw, alg, extractable, usages)
	if err != nil {
		return nil, err
	}
	return &webcrypto.GeneratedKey{SecretKey: handle}, nil
}

// ImportKey accepts raw secret bytes or an oct JWK. The key bit length must
// be the one length the algorithm defines.
func (p *desProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	if err := validateUsages(usages, desUsages); err != nil {
		return nil, err
	}

	raw, err := importSecretBytes(format, keyData, p.name, alg.Hash, extractable, usages)
	if err != nil {
		return nil, err
	}
	if err := checkSecretLength(len(raw)*8, []int{p.lengthBits}, p.name); err != nil {
		return nil, err
	}

	return p.registerSecret(ctx, raw, alg, extractable, usages)
}

// ExportKey renders the key as raw bytes or an oct JWK.
func (p *desProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportSecret(material, format)
}

// Encrypt enciphers data in CBC mode with the supplied IV.
func (p *desProvider) Encrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageEncrypt)
	if err != nil {
		return nil, err
	}
	return p.engine.Encrypt(alg.IV, material.Raw, data)
}

// Decrypt deciphers CBC ciphertext.
func (p *desProvider) Decrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageDecrypt)
	if err != nil {
		return nil, err
	}
	return p.engine.Decrypt(alg.IV, material.Raw, data)
}

func (p *desProvider) registerSecret(ctx context.Context, raw []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	kp := alg.KeyParams()
	kp.Name = p.name
	kp.Length = len(raw) * 8
	material := keys.NewSecretKeyMaterial(keys.FamilyDES, raw, kp, extractable, usages)
	return p.registry.Register(ctx, material)
}
