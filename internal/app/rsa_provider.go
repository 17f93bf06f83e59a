package app

import (
	"context"
	"crypto/rsa"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// rsaProvider serves the three RSA algorithm names. The signature schemes
// delegate to the primitive signer; OAEP runs through the hand-implemented
// padding in the engine.
type rsaProvider struct {
	baseProvider
	keyChecker
	engine cryptoalg.RSAProcessor
	logger logger.Logger
}

func newRSAProvider(name string, engine cryptoalg.RSAProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &rsaProvider{
		baseProvider: baseProvider{name: name},
		keyChecker:   keyChecker{algName: name, family: keys.FamilyRSA, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

func (p *rsaProvider) privateUsages() []string {
	if p.name == webcrypto.AlgRSAOAEP {
		return []string{webcrypto.UsageDecrypt, webcrypto.UsageUnwrapKey}
	}
	return []string{webcrypto.UsageSign}
}

func (p *rsaProvider) publicUsages() []string {
	if p.name == webcrypto.AlgRSAOAEP {
		return []string{webcrypto.UsageEncrypt, webcrypto.UsageWrapKey}
	}
	return []string{webcrypto.UsageVerify}
}

// GenerateKey derives an RSA key pair and registers both halves.
func (p *rsaProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, unionUsages(p.privateUsages(), p.publicUsages())); err != nil {
		return nil, err
	}

	exponent := alg.PublicExponent
	if exponent == 0 {
		exponent = 65537
	}

	priv, err := p.engine.GenerateKeys(alg.ModulusLength, exponent)
	if err != nil {
		return nil, err
	}

	derPriv, err := codec.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}
	derPub, err := codec.MarshalSPKIPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	kp := alg.KeyParams()
	kp.Name = p.name
	kp.PublicExponent = exponent

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

// ImportKey accepts pkcs8, spki or jwk key data.
func (p *rsaProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	var der []byte
	var class keys.KeyClass

	switch format {
	case webcrypto.FormatPKCS8:
		key, _, err := codec.ParsePKCS8PrivateKey(keyData)
		if err != nil {
			return nil, err
		}
		if _, ok := key.(*rsa.PrivateKey); !ok {
			return nil, webcrypto.NewTypeError("pkcs8 data does not hold an RSA key")
		}
		der = append([]byte(nil), keyData...)
		class = keys.ClassPrivate

	case webcrypto.FormatSPKI:
		key, _, err := codec.ParseSPKIPublicKey(keyData)
		if err != nil {
			return nil, err
		}
		if _, ok := key.(*rsa.PublicKey); !ok {
			return nil, webcrypto.NewTypeError("spki data does not hold an RSA key")
		}
		der = append([]byte(nil), keyData...)
		class = keys.ClassPublic

	case webcrypto.FormatJWK:
		doc, key, _, parsedClass, err := codec.ParseAsymmetricJWK(keyData)
		if err != nil {
			return nil, err
		}
		if doc.Kty != "RSA" {
			return nil, webcrypto.NewTypeError("JWK kty %q does not describe an RSA key", doc.Kty)
		}
		if doc.Alg != "" {
			if expected := codec.ComputeAlg(p.name, alg.Hash, 0, ""); expected != "" && doc.Alg != expected {
				return nil, webcrypto.NewTypeError("JWK alg %q does not match %s", doc.Alg, p.name)
			}
		}
		if err := checkJWKKeyOps(doc.KeyOps, usages); err != nil {
			return nil, err
		}
		class = parsedClass
		if class == keys.ClassPrivate {
			der, err = codec.MarshalPKCS8PrivateKey(key)
		} else {
			der, err = codec.MarshalSPKIPublicKey(key)
		}
		if err != nil {
			return nil, err
		}

	default:
		return nil, webcrypto.NewOperationError("unsupported import format %q for %s", format, p.name)
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
	return p.registerDER(ctx, class, der, kp, extractable, usages)
}

// ExportKey renders the key as pkcs8, spki or jwk.
func (p *rsaProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportAsymmetric(material, format, false)
}

// Encrypt applies RSA-OAEP under the public key.
func (p *rsaProvider) Encrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	if p.name != webcrypto.AlgRSAOAEP {
		return nil, webcrypto.NewOperationError("%s does not support encrypt", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageEncrypt, keys.ClassPublic)
	if err != nil {
		return nil, err
	}
	pub, err := p.publicKey(material)
	if err != nil {
		return nil, err
	}
	return p.engine.EncryptOAEP(pub, materialHash(material, alg), alg.Label, data)
}

// Decrypt reverses RSA-OAEP under the private key.
func (p *rsaProvider) Decrypt(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	if p.name != webcrypto.AlgRSAOAEP {
		return nil, webcrypto.NewOperationError("%s does not support decrypt", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageDecrypt, keys.ClassPrivate)
	if err != nil {
		return nil, err
	}
	priv, err := p.privateKey(material)
	if err != nil {
		return nil, err
	}
	return p.engine.DecryptOAEP(priv, materialHash(material, alg), alg.Label, data)
}

// Sign produces a PKCS#1 v1.5 or PSS signature.
func (p *rsaProvider) Sign(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageSign, keys.ClassPrivate)
	if err != nil {
		return nil, err
	}
	priv, err := p.privateKey(material)
	if err != nil {
		return nil, err
	}

	switch p.name {
	case webcrypto.AlgRSASSA:
		return p.engine.SignPKCS1v15(priv, materialHash(material, alg), data)
	case webcrypto.AlgRSAPSS:
		return p.engine.SignPSS(priv, materialHash(material, alg), alg.SaltLength, data)
	default:
		return nil, webcrypto.NewOperationError("%s does not support sign", p.name)
	}
}

// Verify checks a PKCS#1 v1.5 or PSS signature.
func (p *rsaProvider) Verify(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageVerify, keys.ClassPublic)
	if err != nil {
		return false, err
	}
	pub, err := p.publicKey(material)
	if err != nil {
		return false, err
	}

	switch p.name {
	case webcrypto.AlgRSASSA:
		return p.engine.VerifyPKCS1v15(pub, materialHash(material, alg), signature, data)
	case webcrypto.AlgRSAPSS:
		return p.engine.VerifyPSS(pub, materialHash(material, alg), alg.SaltLength, signature, data)
	default:
		return false, webcrypto.NewOperationError("%s does not support verify", p.name)
	}
}

func (p *rsaProvider) privateKey(material *keys.KeyMaterial) (*rsa.PrivateKey, error) {
	key, err := parseAsymmetricMaterial(material)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, webcrypto.NewTypeError("stored material does not hold an RSA private key")
	}
	return priv, nil
}

func (p *rsaProvider) publicKey(material *keys.KeyMaterial) (*rsa.PublicKey, error) {
	key, err := parseAsymmetricMaterial(material)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, webcrypto.NewTypeError("stored material does not hold an RSA public key")
	}
	return pub, nil
}

func (p *rsaProvider) registerDER(ctx context.Context, class keys.KeyClass, der []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	material, err := keys.NewAsymmetricKeyMaterial(keys.FamilyRSA, class, der, alg, extractable, usages)
	if err != nil {
		return nil, err
	}
	return p.registry.Register(ctx, material)
}
