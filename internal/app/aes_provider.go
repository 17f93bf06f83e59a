package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

var aesKeyLengths = []int{128, 192, 256}

// aesProvider serves one AES cipher mode under its WebCrypto name.
type aesProvider struct {
	baseProvider
	keyChecker
	mode   string
	engine cryptoalg.AESProcessor
	logger logger.Logger
}

func newAESProvider(name, mode string, engine cryptoalg.AESProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &aesProvider{
		baseProvider: baseProvider{name: name},
		keyChecker:   keyChecker{algName: name, family: keys.FamilyAES, registry: registry},
		mode:         mode,
		engine:       engine,
		logger:       logger,
	}
}

func (p *aesProvider) legalUsages() []string {
	if p.mode == cryptoalg.AESModeKW {
		return []string{webcrypto.UsageWrapKey, webcrypto.UsageUnwrapKey}
	}
	return []string{webcrypto.UsageEncrypt, webcrypto.UsageDecrypt, webcrypto.UsageWrapKey, webcrypto.UsageUnwrapKey}
}

// GenerateKey draws a fresh AES key of alg.Length bits.
func (p *aesProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, p.legalUsages()); err != nil {
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
func (p *aesProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	if err := validateUsages(usages, p.legalUsages()); err != nil {
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
func (p *aesProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportSecret(material, format)
}

// Encrypt enciphers data in the provider's mode. For AES-KW the operation is
// key wrapping and requires the wrapKey usage.
func (p *aesProvider) Encrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	usage := webcrypto.UsageEncrypt
	if p.mode == cryptoalg.AESModeKW {
		usage = webcrypto.UsageWrapKey
	}
	material, err := p.checkedResolve(ctx, handle, usage)
	if err != nil {
		return nil, err
	}
	return p.engine.Encrypt(p.params(alg), material.Raw, data)
}

// Decrypt deciphers data in the provider's mode.
func (p *aesProvider) Decrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	usage := webcrypto.UsageDecrypt
	if p.mode == cryptoalg.AESModeKW {
		usage = webcrypto.UsageUnwrapKey
	}
	material, err := p.checkedResolve(ctx, handle, usage)
	if err != nil {
		return nil, err
	}
	return p.engine.Decrypt(p.params(alg), material.Raw, data)
}

func (p *aesProvider) params(alg *keys.Algorithm) *cryptoalg.AESParams {
	return &cryptoalg.AESParams{
		Mode:           p.mode,
		IV:             alg.IV,
		Counter:        alg.Counter,
		CounterLength:  alg.CounterLength,
		TagLength:      alg.TagLength,
		AdditionalData: alg.AdditionalData,
	}
}

func (p *aesProvider) registerSecret(ctx context.Context, raw []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	kp := alg.KeyParams()
	kp.Name = p.name
	kp.Length = len(raw) * 8
	material := keys.NewSecretKeyMaterial(keys.FamilyAES, raw, kp, extractable, usages)
	return p.registry.Register(ctx, material)
}

// importSecretBytes decodes symmetric key data in raw or jwk form, applying
// the JWK-level consistency checks shared by the symmetric providers.
func importSecretBytes(format string, keyData []byte, algName, hashName string, extractable bool, usages []string) ([]byte, error) {
	switch format {
	case webcrypto.FormatRaw:
		return append([]byte(nil), keyData...), nil

	case webcrypto.FormatJWK:
		doc, secret, err := codec.ParseSecretJWK(keyData)
		if err != nil {
			return nil, err
		}
		if doc.Ext != nil && !*doc.Ext && extractable {
			return nil, webcrypto.NewOperationError("cannot import a non-extractable JWK as extractable")
		}
		if err := checkJWKKeyOps(doc.KeyOps, usages); err != nil {
			return nil, err
		}
		if doc.Alg != "" {
			if expected := codec.ComputeAlg(algName, hashName, len(secret)*8, ""); expected != "" && doc.Alg != expected {
				return nil, webcrypto.NewTypeError("JWK alg %q does not match %s", doc.Alg, algName)
			}
		}
		return secret, nil

	default:
		return nil, webcrypto.NewOperationError("unsupported import format %q for a secret key", format)
	}
}

func checkSecretLength(lengthBits int, legal []int, algName string) error {
	for _, l := range legal {
		if lengthBits == l {
			return nil
		}
	}
	return webcrypto.NewOperationError("key length %d not supported for %s", lengthBits, algName)
}
