package codec

import (
	"encoding/asn1"
	"math/big"

	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

type ecdsaSignature struct {
	R, S *big.Int
}

// RawSignatureToASN1 converts a fixed-width r||s signature into the DER
// SEQUENCE{INTEGER r, INTEGER s} form the primitive verifier consumes.
// A raw signature whose length is not twice the point size is rejected.
func RawSignatureToASN1(raw []byte, namedCurve string) ([]byte, error) {
	size, err := PointSize(namedCurve)
	if err != nil {
		return nil, err
	}
	if len(raw) != 2*size {
		return nil, webcrypto.NewCryptoError("invalid signature length %d for curve %s", len(raw), namedCurve)
	}

	sig := ecdsaSignature{
		R: new(big.Int).SetBytes(raw[:size]),
		S: new(big.Int).SetBytes(raw[size:]),
	}
	der, err := asn1.Marshal(sig)
	if err != nil {
		return nil, webcrypto.WrapCryptoError(err, "failed to encode ECDSA signature")
	}
	return der, nil
}

// ASN1SignatureToRaw converts a DER signature into the fixed-width r||s
// form, zero-padding each integer to the curve point size.
func ASN1SignatureToRaw(der []byte, namedCurve string) ([]byte, error) {
	size, err := PointSize(namedCurve)
	if err != nil {
		return nil, err
	}

	var sig ecdsaSignature
	if rest, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, webcrypto.WrapCryptoError(err, "malformed ECDSA signature")
	} else if len(rest) != 0 {
		return nil, webcrypto.NewCryptoError("trailing bytes after ECDSA signature")
	}

	raw := make([]byte, 2*size)
	copy(raw[:size], padScalar(sig.R.Bytes(), size))
	copy(raw[size:], padScalar(sig.S.Bytes(), size))
	return raw, nil
}
