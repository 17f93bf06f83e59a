package codec

import (
	"encoding/asn1"

	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// Fixed object identifiers for the supported key algorithms.
var (
	oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECPublicKey   = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

	oidCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidCurveP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidCurveP521 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
	oidCurveK256 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

	// RFC 8410 algorithm identifiers for the Edwards and Montgomery curves.
	oidX25519  = asn1.ObjectIdentifier{1, 3, 101, 110}
	oidX448    = asn1.ObjectIdentifier{1, 3, 101, 111}
	oidEd25519 = asn1.ObjectIdentifier{1, 3, 101, 112}
	oidEd448   = asn1.ObjectIdentifier{1, 3, 101, 113}
)

var curveOIDs = map[string]asn1.ObjectIdentifier{
	webcrypto.CurveP256: oidCurveP256,
	webcrypto.CurveP384: oidCurveP384,
	webcrypto.CurveP521: oidCurveP521,
	webcrypto.CurveK256: oidCurveK256,
}

var okpOIDs = map[string]asn1.ObjectIdentifier{
	webcrypto.CurveX25519:  oidX25519,
	webcrypto.CurveX448:    oidX448,
	webcrypto.CurveEd25519: oidEd25519,
	webcrypto.CurveEd448:   oidEd448,
}

// CurveOID returns the object identifier for a WebCrypto EC curve name.
func CurveOID(namedCurve string) (asn1.ObjectIdentifier, error) {
	oid, ok := curveOIDs[namedCurve]
	if !ok {
		return nil, webcrypto.NewOperationError("unknown elliptic curve: %s", namedCurve)
	}
	return oid, nil
}

// CurveByOID returns the WebCrypto curve name for an EC curve identifier.
func CurveByOID(oid asn1.ObjectIdentifier) (string, error) {
	for name, candidate := range curveOIDs {
		if candidate.Equal(oid) {
			return name, nil
		}
	}
	return "", webcrypto.NewCryptoError("unrecognized elliptic curve identifier: %v", oid)
}

// OKPCurveOID returns the RFC 8410 identifier for an Edwards or Montgomery
// curve name.
func OKPCurveOID(namedCurve string) (asn1.ObjectIdentifier, error) {
	oid, ok := okpOIDs[namedCurve]
	if !ok {
		return nil, webcrypto.NewOperationError("unknown curve: %s", namedCurve)
	}
	return oid, nil
}

// OKPCurveByOID returns the curve name for an RFC 8410 identifier.
func OKPCurveByOID(oid asn1.ObjectIdentifier) (string, error) {
	for name, candidate := range okpOIDs {
		if candidate.Equal(oid) {
			return name, nil
		}
	}
	return "", webcrypto.NewCryptoError("unrecognized curve identifier: %v", oid)
}

// PointSize returns the field element width in bytes for a named curve.
func PointSize(namedCurve string) (int, error) {
	switch namedCurve {
	case webcrypto.CurveP256, webcrypto.CurveK256:
		return 32, nil
	case webcrypto.CurveP384:
		return 48, nil
	case webcrypto.CurveP521:
		return 66, nil
	default:
		return 0, webcrypto.NewOperationError("unknown elliptic curve: %s", namedCurve)
	}
}
