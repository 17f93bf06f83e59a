// Package keystore implements the handle-to-material registry. Material is
// held in an in-memory table keyed by handle ID; handles that outlive the
// table are repaired from the sealed snapshot they carry or from the
// persistent repository when one is configured.
package keystore
