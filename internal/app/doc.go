// Package app composes the per-algorithm providers and the Subtle facade.
// A provider pairs one WebCrypto algorithm name with its engine and codec,
// enforces the legal usage set per key class, and translates between public
// handles and internal key material at the boundary. Providers fail fast on
// unsupported format and parameter combinations before any engine call and
// never suppress engine errors.
package app
