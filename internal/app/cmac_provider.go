package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// cmacProvider serves AES-CMAC. The key is ordinary AES material; the MAC
// protocol lives in the engine.
type cmacProvider struct {
	baseProvider
	keyChecker
	engine cryptoalg.CMACProcessor
	logger logger.Logger
}

func newCMACProvider(engine cryptoalg.CMACProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &cmacProvider{
		baseProvider: baseProvider{name: webcrypto.AlgAESCMAC},
		keyChecker:   keyChecker{algName: webcrypto.AlgAESCMAC, family: keys.FamilyAES, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

var cmacUsages = []string{webcrypto.UsageSign, webcrypto.UsageVerify}

// GenerateKey draws a fresh AES key of alg.Length bits for MAC use.
func (p *cmacProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, cmacUsages); err != nil {
		return nil, err
	}

	raw, err := p.engine.GenerateKey(alg.Length)
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
func (p *cmacProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	if err := validateUsages(usages, cmacUsages); err != nil {
		return nil, err
	}

	raw, err := importSecretBytes(format, keyData, p.name, alg.Hash, extractable, usages)
	if err != nil {
		return nil, err
	}
	if err := checkSecretLength(len(raw)*8, aesKeyLengths, p.name); err != nil {
		return nil, err
	}

	return p.registerSecret(ctx, raw, alg, extractable, usages)
}

// ExportKey renders the key as raw bytes or an oct JWK.
func (p *cmacProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportSecret(material, format)
}

// Sign computes the 16-byte CMAC of data.
func (p *cmacProvider) Sign(ctx context.Context, _ *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageSign)
	if err != nil {
		return nil, err
	}
	return p.engine.Sign(material.Raw, data)
}

// Verify recomputes the CMAC and compares it over its full length.
func (p *cmacProvider) Verify(ctx context.Context, _ *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	material, err := p.checkedResolve(ctx, handle, webcrypto.UsageVerify)
	if err != nil {
		return false, err
	}
	return p.engine.Verify(material.Raw, data, signature)
}

func (p *cmacProvider) registerSecret(ctx context.Context, raw []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	kp := alg.KeyParams()
	kp.Name = p.name
	kp.Length = len(raw) * 8
	material := keys.NewSecretKeyMaterial(keys.FamilyAES, raw, kp, extractable, usages)
	return p.registry.Register(ctx, material)
}
