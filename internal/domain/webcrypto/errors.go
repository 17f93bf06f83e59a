package webcrypto

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the layer.
var (
	// ErrKeyNotFound is returned by the registry when a handle cannot be
	// resolved through the table, its sealed snapshot or the repository.
	ErrKeyNotFound = errors.New("key not found in secure storage")

	// ErrDecryptionFailed is the single generic error returned for every
	// OAEP unpadding failure. Distinct causes (wrong length, bad label
	// hash, missing delimiter) are deliberately indistinguishable so the
	// error carries no padding-oracle signal.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// OperationError reports an unsupported format, algorithm or parameter
// combination. It always precedes any engine call.
type OperationError struct {
	msg string
}

func (e *OperationError) Error() string { return e.msg }

// NewOperationError builds an OperationError from a format string.
func NewOperationError(format string, args ...interface{}) error {
	return &OperationError{msg: fmt.Sprintf(format, args...)}
}

// TypeError reports that resolved material does not match the expected key
// class or variant, or that a required field of imported key data is absent.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string { return e.msg }

// NewTypeError builds a TypeError from a format string.
func NewTypeError(format string, args ...interface{}) error {
	return &TypeError{msg: fmt.Sprintf(format, args...)}
}

// CryptoError reports a malformed cryptographic structure, such as undecodable
// ASN.1 or a curve OID that disagrees with the requested algorithm.
type CryptoError struct {
	msg string
	err error
}

func (e *CryptoError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *CryptoError) Unwrap() error { return e.err }

// NewCryptoError builds a CryptoError from a format string.
func NewCryptoError(format string, args ...interface{}) error {
	return &CryptoError{msg: fmt.Sprintf(format, args...)}
}

// WrapCryptoError annotates an underlying structural failure.
func WrapCryptoError(err error, format string, args ...interface{}) error {
	return &CryptoError{msg: fmt.Sprintf(format, args...), err: err}
}
