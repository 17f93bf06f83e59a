package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/codec"
)

// baseProvider supplies the operations a concrete provider does not
// override, each failing with an operation error. Embedding it keeps every
// provider a full implementation of the capability interface.
type baseProvider struct {
	name string
}

// Name returns the WebCrypto algorithm name the provider serves.
func (p *baseProvider) Name() string { return p.name }

// GenerateKey fails unless overridden.
func (p *baseProvider) GenerateKey(_ context.Context, _ *keys.Algorithm, _ bool, _ []string) (*webcrypto.GeneratedKey, error) {
	return nil, webcrypto.NewOperationError("%s does not support generateKey", p.name)
}

// ImportKey fails unless overridden.
func (p *baseProvider) ImportKey(_ context.Context, _ string, _ []byte, _ *keys.Algorithm, _ bool, _ []string) (*keys.Handle, error) {
	return nil, webcrypto.NewOperationError("%s does not support importKey", p.name)
}

// ExportKey fails unless overridden.
func (p *baseProvider) ExportKey(_ context.Context, _ string, _ *keys.Handle) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support exportKey", p.name)
}

// Encrypt fails unless overridden.
func (p *baseProvider) Encrypt(_ context.Context, _ *keys.Algorithm, _ *keys.Handle, _ []byte) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support encrypt", p.name)
}

// Decrypt fails unless overridden.
func (p *baseProvider) Decrypt(_ context.Context, _ *keys.Algorithm, _ *keys.Handle, _ []byte) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support decrypt", p.name)
}

// Sign fails unless overridden.
func (p *baseProvider) Sign(_ context.Context, _ *keys.Algorithm, _ *keys.Handle, _ []byte) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support sign", p.name)
}

// Verify fails unless overridden.
func (p *baseProvider) Verify(_ context.Context, _ *keys.Algorithm, _ *keys.Handle, _, _ []byte) (bool, error) {
	return false, webcrypto.NewOperationError("%s does not support verify", p.name)
}

// DeriveBits fails unless overridden.
func (p *baseProvider) DeriveBits(_ context.Context, _ *keys.Algorithm, _ *keys.Handle, _ int) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support deriveBits", p.name)
}

// Digest fails unless overridden.
func (p *baseProvider) Digest(_ context.Context, _ *keys.Algorithm, _ []byte) ([]byte, error) {
	return nil, webcrypto.NewOperationError("%s does not support digest", p.name)
}

// keyChecker is the registry-facing half of a provider: it resolves handles
// and verifies that the material variant matches the provider's family and
// algorithm name, beyond the generic usage check on the handle itself.
type keyChecker struct {
	algName  string
	family   string
	registry keys.Registry
}

// CheckCryptoKey fails if the usage is not permitted by the handle or the
// resolved material's variant does not match the provider.
func (c *keyChecker) CheckCryptoKey(ctx context.Context, handle *keys.Handle, usage string) error {
	_, err := c.checkedResolve(ctx, handle, usage)
	return err
}

// checkedResolve runs the usage check, resolves the handle and validates the
// material variant. An empty usage skips the usage check, which export and
// peer-key paths rely on.
func (c *keyChecker) checkedResolve(ctx context.Context, handle *keys.Handle, usage string) (*keys.KeyMaterial, error) {
	if handle == nil {
		return nil, webcrypto.NewTypeError("no key handle supplied")
	}
	if usage != "" && !handle.HasUsage(usage) {
		return nil, webcrypto.NewTypeError("key does not permit the %q operation", usage)
	}

	material, err := c.registry.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	if material.Family != c.family {
		return nil, webcrypto.NewTypeError("resolved key material is %s, expected %s", material.Family, c.family)
	}
	if material.Algorithm != nil && material.Algorithm.Name != "" && material.Algorithm.Name != c.algName {
		return nil, webcrypto.NewTypeError("key belongs to %s, not %s", material.Algorithm.Name, c.algName)
	}

	return material, nil
}

// resolveClass is checkedResolve plus a key-class requirement.
func (c *keyChecker) resolveClass(ctx context.Context, handle *keys.Handle, usage string, class keys.KeyClass) (*keys.KeyMaterial, error) {
	material, err := c.checkedResolve(ctx, handle, usage)
	if err != nil {
		return nil, err
	}
	if material.Class != class {
		return nil, webcrypto.NewTypeError("operation requires a %s key, got a %s key", class, material.Class)
	}
	return material, nil
}

// validateUsages checks that every requested usage is legal for the
// algorithm and key class.
func validateUsages(usages, legal []string) error {
	for _, u := range usages {
		found := false
		for _, l := range legal {
			if u == l {
				found = true
				break
			}
		}
		if !found {
			return webcrypto.NewOperationError("usage %q is not supported", u)
		}
	}
	return nil
}

// checkJWKKeyOps verifies the requested usages against the document's
// key_ops member. An absent key_ops permits everything.
func checkJWKKeyOps(keyOps, usages []string) error {
	if len(keyOps) == 0 {
		return nil
	}
	for _, u := range usages {
		found := false
		for _, op := range keyOps {
			if u == op {
				found = true
				break
			}
		}
		if !found {
			return webcrypto.NewTypeError("JWK key_ops does not permit the %q usage", u)
		}
	}
	return nil
}

// intersectUsages returns the requested usages that are legal for one half
// of a generated key pair.
func intersectUsages(usages, legal []string) []string {
	out := make([]string, 0, len(usages))
	for _, u := range usages {
		for _, l := range legal {
			if u == l {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func unionUsages(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, u := range b {
		if !containsUsage(out, u) {
			out = append(out, u)
		}
	}
	return out
}

func containsUsage(usages []string, usage string) bool {
	for _, u := range usages {
		if u == usage {
			return true
		}
	}
	return false
}

// exportSecret renders symmetric material in raw or jwk form.
func exportSecret(material *keys.KeyMaterial, format string) ([]byte, error) {
	if !material.Extractable {
		return nil, webcrypto.NewOperationError("key is not extractable")
	}

	switch format {
	case webcrypto.FormatRaw:
		return append([]byte(nil), material.Raw...), nil
	case webcrypto.FormatJWK:
		doc, err := codec.MarshalSecretJWK(material.Raw, material.Algorithm, material.Extractable, material.Usages)
		if err != nil {
			return nil, err
		}
		return codec.AttachThumbprintKid(doc)
	default:
		return nil, webcrypto.NewOperationError("unsupported export format %q for a secret key", format)
	}
}

// exportAsymmetric renders asymmetric material. Raw form is only offered by
// the EC and OKP providers, which pass allowRaw.
func exportAsymmetric(material *keys.KeyMaterial, format string, allowRaw bool) ([]byte, error) {
	if !material.Extractable {
		return nil, webcrypto.NewOperationError("key is not extractable")
	}

	switch format {
	case webcrypto.FormatPKCS8:
		if material.Class != keys.ClassPrivate {
			return nil, webcrypto.NewOperationError("pkcs8 export requires a private key")
		}
		return append([]byte(nil), material.DER...), nil

	case webcrypto.FormatSPKI:
		if material.Class != keys.ClassPublic {
			return nil, webcrypto.NewOperationError("spki export requires a public key")
		}
		return append([]byte(nil), material.DER...), nil

	case webcrypto.FormatRaw:
		if !allowRaw {
			return nil, webcrypto.NewOperationError("raw export is not supported for %s keys", material.Family)
		}
		if material.Class != keys.ClassPublic {
			return nil, webcrypto.NewOperationError("raw export requires a public key")
		}
		key, _, err := codec.ParseSPKIPublicKey(material.DER)
		if err != nil {
			return nil, err
		}
		return codec.MarshalRawPublicKey(key)

	case webcrypto.FormatJWK:
		key, err := parseAsymmetricMaterial(material)
		if err != nil {
			return nil, err
		}
		doc, err := codec.MarshalAsymmetricJWK(key, material.Algorithm, material.Extractable, material.Usages)
		if err != nil {
			return nil, err
		}
		return codec.AttachThumbprintKid(doc)

	default:
		return nil, webcrypto.NewOperationError("unsupported export format %q for an asymmetric key", format)
	}
}

// parseAsymmetricMaterial decodes the DER structure of asymmetric material
// into the native key type of its backing primitive.
func parseAsymmetricMaterial(material *keys.KeyMaterial) (interface{}, error) {
	switch material.Class {
	case keys.ClassPrivate:
		key, _, err := codec.ParsePKCS8PrivateKey(material.DER)
		return key, err
	case keys.ClassPublic:
		key, _, err := codec.ParseSPKIPublicKey(material.DER)
		return key, err
	default:
		return nil, webcrypto.NewTypeError("material class %q carries no DER structure", material.Class)
	}
}
