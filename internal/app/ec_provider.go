package app

import (
	"context"
	"crypto/ecdsa"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// ecProvider serves ECDSA and ECDH over the Weierstrass curves.
type ecProvider struct {
	baseProvider
	keyChecker
	engine cryptoalg.ECProcessor
	logger logger.Logger
}

func newECProvider(name string, engine cryptoalg.ECProcessor, registry keys.Registry, logger logger.Logger) webcrypto.Provider {
	return &ecProvider{
		baseProvider: baseProvider{name: name},
		keyChecker:   keyChecker{algName: name, family: keys.FamilyEC, registry: registry},
		engine:       engine,
		logger:       logger,
	}
}

func (p *ecProvider) privateUsages() []string {
	if p.name == webcrypto.AlgECDH {
		return []string{webcrypto.UsageDeriveKey, webcrypto.UsageDeriveBits}
	}
	return []string{webcrypto.UsageSign}
}

func (p *ecProvider) publicUsages() []string {
	if p.name == webcrypto.AlgECDH {
		return nil
	}
	return []string{webcrypto.UsageVerify}
}

// GenerateKey derives a key pair on alg.NamedCurve and registers both
// halves. ECDH public keys carry no usages.
func (p *ecProvider) GenerateKey(ctx context.Context, alg *keys.Algorithm, extractable bool, usages []string) (*webcrypto.GeneratedKey, error) {
	if err := validateUsages(usages, unionUsages(p.privateUsages(), p.publicUsages())); err != nil {
		return nil, err
	}

	priv, err := p.engine.GenerateKeys(alg.NamedCurve)
	if err != nil {
		return nil, err
	}

	derPriv, err := codec.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}
	derPub, err := codec.MarshalSPKIPublicKey(publicHalfOf(priv))
	if err != nil {
		return nil, err
	}

	kp := alg.KeyParams()
	kp.Name = p.name

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

// ImportKey accepts raw public points, jwk, pkcs8 or spki. A curve embedded
// in the key data that disagrees with alg.NamedCurve is an error.
func (p *ecProvider) ImportKey(ctx context.Context, format string, keyData []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	der, class, err := importCurveKey(format, keyData, alg.NamedCurve, "EC", usages)
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
	return p.registerDER(ctx, class, der, kp, extractable, usages)
}

// ExportKey renders the key as raw point bytes, jwk, pkcs8 or spki.
func (p *ecProvider) ExportKey(ctx context.Context, format string, handle *keys.Handle) ([]byte, error) {
	material, err := p.checkedResolve(ctx, handle, "")
	if err != nil {
		return nil, err
	}
	return exportAsymmetric(material, format, true)
}

// Sign hashes data with alg.Hash and returns the raw fixed-width signature.
func (p *ecProvider) Sign(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, data []byte) ([]byte, error) {
	if p.name != webcrypto.AlgECDSA {
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
	return p.engine.Sign(priv, alg.Hash, data)
}

// Verify checks a raw fixed-width signature.
func (p *ecProvider) Verify(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, signature, data []byte) (bool, error) {
	if p.name != webcrypto.AlgECDSA {
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
	return p.engine.Verify(pub, alg.Hash, signature, data)
}

// DeriveBits performs ECDH between the handle's private key and the peer
// public key carried in alg.Public.
func (p *ecProvider) DeriveBits(ctx context.Context, alg *keys.Algorithm, handle *keys.Handle, lengthBits int) ([]byte, error) {
	if p.name != webcrypto.AlgECDH {
		return nil, webcrypto.NewOperationError("%s does not support deriveBits", p.name)
	}
	material, err := p.resolveClass(ctx, handle, webcrypto.UsageDeriveBits, keys.ClassPrivate)
	if err != nil {
		return nil, err
	}
	if alg.Public == nil {
		return nil, webcrypto.NewOperationError("ECDH requires a peer public key")
	}
	peerMaterial, err := p.resolveClass(ctx, alg.Public, "", keys.ClassPublic)
	if err != nil {
		return nil, err
	}
	if err := sameCurve(material, peerMaterial); err != nil {
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

func (p *ecProvider) registerDER(ctx context.Context, class keys.KeyClass, der []byte, alg *keys.Algorithm, extractable bool, usages []string) (*keys.Handle, error) {
	material, err := keys.NewAsymmetricKeyMaterial(keys.FamilyEC, class, der, alg, extractable, usages)
	if err != nil {
		return nil, err
	}
	return p.registry.Register(ctx, material)
}

// publicHalfOf extracts the public key carried by a generated EC private
// key.
func publicHalfOf(priv interface{}) interface{} {
	switch key := priv.(type) {
	case *ecdsa.PrivateKey:
		return &key.PublicKey
	case *secp256k1.PrivateKey:
		return key.PubKey()
	default:
		return nil
	}
}

func sameCurve(a, b *keys.KeyMaterial) error {
	curveA := curveOfMaterial(a)
	curveB := curveOfMaterial(b)
	if curveA == "" || curveB == "" || curveA != curveB {
		return webcrypto.NewOperationError("keys live on different curves: %q and %q", curveA, curveB)
	}
	return nil
}

func curveOfMaterial(m *keys.KeyMaterial) string {
	if m.Algorithm != nil {
		return m.Algorithm.NamedCurve
	}
	return ""
}

// importCurveKey decodes EC or OKP key data and verifies the embedded curve
// matches the requested one. kty selects which JWK key types are accepted.
func importCurveKey(format string, keyData []byte, namedCurve, kty string, usages []string) ([]byte, keys.KeyClass, error) {
	switch format {
	case webcrypto.FormatRaw:
		pub, err := codec.ParseRawPublicKey(keyData, namedCurve)
		if err != nil {
			return nil, "", err
		}
		der, err := codec.MarshalSPKIPublicKey(pub)
		if err != nil {
			return nil, "", err
		}
		return der, keys.ClassPublic, nil

	case webcrypto.FormatPKCS8:
		_, curve, err := codec.ParsePKCS8PrivateKey(keyData)
		if err != nil {
			return nil, "", err
		}
		if curve != namedCurve {
			return nil, "", webcrypto.NewCryptoError("key data is for curve %s, not %s", curve, namedCurve)
		}
		return append([]byte(nil), keyData...), keys.ClassPrivate, nil

	case webcrypto.FormatSPKI:
		_, curve, err := codec.ParseSPKIPublicKey(keyData)
		if err != nil {
			return nil, "", err
		}
		if curve != namedCurve {
			return nil, "", webcrypto.NewCryptoError("key data is for curve %s, not %s", curve, namedCurve)
		}
		return append([]byte(nil), keyData...), keys.ClassPublic, nil

	case webcrypto.FormatJWK:
		doc, key, curve, class, err := codec.ParseAsymmetricJWK(keyData)
		if err != nil {
			return nil, "", err
		}
		if doc.Kty != kty {
			return nil, "", webcrypto.NewTypeError("JWK kty %q does not describe a %s key", doc.Kty, kty)
		}
		if curve != namedCurve {
			return nil, "", webcrypto.NewCryptoError("key data is for curve %s, not %s", curve, namedCurve)
		}
		if err := checkJWKKeyOps(doc.KeyOps, usages); err != nil {
			return nil, "", err
		}
		var der []byte
		if class == keys.ClassPrivate {
			der, err = codec.MarshalPKCS8PrivateKey(key)
		} else {
			der, err = codec.MarshalSPKIPublicKey(key)
		}
		if err != nil {
			return nil, "", err
		}
		return der, class, nil

	default:
		return nil, "", webcrypto.NewOperationError("unsupported import format %q", format)
	}
}
