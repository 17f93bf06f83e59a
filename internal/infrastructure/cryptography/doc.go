// Package cryptography implements the per-family algorithm engines on top
// of the primitive cipher, hash and bignum routines. Mode dispatch, padding
// schemes, AES-CMAC, RSA-OAEP with MGF1 and HKDF live here; the underlying
// block ciphers, modular arithmetic and curve operations are delegated.
package cryptography
