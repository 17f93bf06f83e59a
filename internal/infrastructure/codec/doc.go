// Package codec implements the key-format codecs: JWK documents with the
// fixed alg table, raw secret and public-point bytes, DER PKCS#8 and SPKI
// wrapping via the generic ASN.1 engine, and the conversion between raw
// fixed-width and ASN.1 ECDSA signatures.
package codec
