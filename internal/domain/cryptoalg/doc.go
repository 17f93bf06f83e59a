// Package cryptoalg defines the interfaces of the per-family algorithm
// engines. Engines sit between the providers and the primitive crypto
// routines: they own mode dispatch, padding schemes and the protocols
// implemented from first principles (AES-CMAC, RSA-OAEP, HKDF), but never
// the block-cipher rounds, modular exponentiation or curve arithmetic
// themselves.
package cryptoalg
