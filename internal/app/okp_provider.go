package app

import (
	"context"
	"crypto/ecdh"
	"crypto/ed25519"

	"github.com/cloudflare/circl/sign/ed448"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// okpProvider serves one Edwards or Montgomery curve. The algorithm name
// doubles as the curve name.
type okpProvider struct {
	baseProvider
	keyChecker
	signing bool
	engine  cryptoalg.OKPProcessor
	logger  logger.Logger
}

func newOKPProvider(name string, engine cryptoalg.OKPProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	signing := name == webcrypto.AlgEd25519 || name == webcrypto.AlgEd448
	return &okpProvider{
		baseProvider: baseProvider{name: name},
		keyChecker:   keyChecker{algName: name, family: keys.FamilyOKP, registry: registry},
		signing:      signing,
		engine:       engine,
		logger:       logger,
	}
}

func (p *okpProvider) privateUsages() []string {
	if p.signing {
		return []string{webcrypto.UsageSign}
	}
	return []string{webcrypto.UsageDeriveKey, webcrypto.UsageDeriveBits}
}

func (p *okpProvider) publicUsages() []string {
	if p.signing {
		return []string{webcrypto.UsageVerify}
	}
	return nil
}

// GenerateKey derives a key pair on the provider's curve.
func (p *okpProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, unionUsages(p.privateUsages(), p.publicUsages())); err != nil {
		return nil, err
	}

	priv, err := p.engine.GenerateKeys(p.name)
	if err != nil {
		return nil, err
	}
	pub, err := okpPublicHalf(priv)
	if err != nil {
		return nil, err
	}

	derPriv, err := codec.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}
	derPub, err := codec.MarshalSPKIPublicKey(pub)
	if err != nil {
		return nil, err
	}

	kp := alg.KeyParams()
	kp.Name = p.name
	kp.NamedCurve = p.name

	privHandle, err := p.registerDER(ctx, keys.ClassPrivate, derPriv, kp, extractable, intersectUsages(usages, p.privateUsages()))
	if err != nil {
		return nil, err
	}
	pubHandle, err := p.registerDER(ctx, keys.ClassPublic, derPub, kp, true, intersectUsages(usages, p.publicUsages()))
	if err != nil {
		return nil, err
	}

	return &webcrypto.GeneratedKey{PublicKey: pubHandle, PrivateKey: privHandle}, nil
}

// ImportKey accepts raw public bytes, jwk, pkcs8 or spki on the provider's
// curve.
func (p *okpProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	der, class, err := importCurveKey(format, keyData, p.name, "OKP", usages)
	if err != nil {
		return nil, err
	}

	legal := p.privateUsages()
	if class == keys.ClassPublic {
		legal = p.publicUsages()
	}
	if err := validateUsages(usages, legal); err != nil {
		return nil, err
	}

	kp := alg.KeyParams()
	kp.Name = p.name
	kp.NamedCurve = p.name
	return p.registerDER(ctx, class, der, kp, extractable, usages)
}

// ExportKey renders the key as raw curve bytes, jwk, pkcs8 or spki.
func (p *okpProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportAsymmetric(material, format, true)
}

// Sign signs data with an Edwards-curve private key.
func (p *okpProvider) Sign(ctx context.Context, _ *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	if !p.signing {
		return nil, webcrypto.NewOperationError("%s does not support sign", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageSign, keys.ClassPrivate)
	if err != nil {
		return nil, err
	}
	priv, err := parseAsymmetricMaterial(material)
	if err != nil {
		return nil, err
	}
	return p.engine.Sign(priv, data)
}

// Verify checks an EdDSA signature.
func (p *okpProvider) Verify(ctx context.Context, _ *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	if !p.signing {
		return false, webcrypto.NewOperationError("%s does not support verify", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageVerify, keys.ClassPublic)
	if err != nil {
		return false, err
	}
	pub, err := parseAsymmetricMaterial(material)
	if err != nil {
		return false, err
	}
	return p.engine.Verify(pub, signature, data)
}

// DeriveBits runs Montgomery-curve key agreement with the peer public key
// carried in alg.Public.
func (p *okpProvider) DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error) {
	if p.signing {
		return nil, webcrypto.NewOperationError("%s does not support deriveBits", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageDeriveBits, keys.ClassPrivate)
	if err != nil {
		return nil, err
	}
	if alg.Public == nil {
		return nil, webcrypto.NewOperationError("%s requires a peer public key", p.name)
	}
	peerMaterial, err := p.resolveClass(ctx, alg.Public, "", keys.ClassPublic)
	if err != nil {
		return nil, err
	}

	priv, err := parseAsymmetricMaterial(material)
	if err != nil {
		return nil, err
	}
	pub, err := parseAsymmetricMaterial(peerMaterial)
	if err != nil {
		return nil, err
	}

	return p.engine.DeriveBits(priv, pub, lengthBits)
}

func (p *okpProvider) registerDER(ctx context.Context, class keys.KeyClass, der []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	material, err := keys.NewAsymmetricKeyMaterial(keys.FamilyOKP, class, der, alg, extractable, usages)
	if err != nil {
		return nil, err
	}
	return p.registry.Register(ctx, material)
}

// okpPublicHalf recovers the public key of a generated OKP private key.
func okpPublicHalf(priv interface{}) (interface{}, error) {
	switch key := priv.(type) {
	case ed25519.PrivateKey:
		return key.Public().(ed25519.PublicKey), nil
	case ed448.PrivateKey:
		return key.Public().(ed448.PublicKey), nil
	case *ecdh.PrivateKey:
		return key.PublicKey(), nil
	case cryptoalg.X448PrivateKey:
		return codec.X448PublicFromPrivate(key)
	default:
		return nil, webcrypto.NewTypeError("unsupported OKP private key type %T", priv)
	}
}
