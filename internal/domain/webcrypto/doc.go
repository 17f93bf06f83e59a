// Package webcrypto defines the capability interface each algorithm provider
// exposes to the dispatching layer, the supported key formats and usages, and
// the error taxonomy shared by engines, codecs and providers.
package webcrypto
