package codec

import (
	"crypto"
	"encoding/base64"
	"encoding/json"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// AttachThumbprintKid sets the kid of a rendered JWK document to its RFC
// 7638 SHA-256 thumbprint, base64url encoded. Key types the JOSE library
// cannot parse (K-256, the 448-bit curves) are returned unchanged; the kid
// is a convenience, not part of the key material.
func AttachThumbprintKid(doc []byte) ([]byte, error) {
	key, err := jwk.ParseKey(doc)
	if err != nil {
		return doc, nil
	}

	thumbprint, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return doc, nil
	}

	var parsed JSONWebKey
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return doc, nil
	}
	parsed.Kid = base64.RawURLEncoding.EncodeToString(thumbprint)
	return json.Marshal(parsed)
}
