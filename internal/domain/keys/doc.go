// Package keys defines the internal key-material model, the opaque key
// handles exposed to callers, and the contracts for the registry that
// translates between the two. Key material never leaves this layer except
// through an explicit export codec.
package keys
