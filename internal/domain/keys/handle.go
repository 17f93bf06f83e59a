package keys

import (
	"encoding/json"
	"fmt"
)

// Handle is the opaque, immutable public reference to a key. It carries the
// key's descriptor but never the key bytes themselves; the only key-shaped
// payload is a sealed snapshot of the material captured at registration,
// used by the registry to rehydrate handles that outlive its in-memory
// table. Handles are safe to pass across process boundaries.
type Handle struct {
	ID          string     `json:"id"`
	Algorithm   *Algorithm `json:"algorithm,omitempty"`
	Type        KeyClass   `json:"type"`
	Extractable bool       `json:"extractable"`
	Usages      []string   `json:"usages"`

	sealed []byte
}

// NewHandle freezes a public handle over the given material snapshot.
func NewHandle(id string, m *KeyMaterial, sealed []byte) *Handle {
	return &Handle{
		ID:          id,
		Algorithm:   m.Algorithm.KeyParams(),
		Type:        m.Class,
		Extractable: m.Extractable,
		Usages:      append([]string(nil), m.Usages...),
		sealed:      sealed,
	}
}

// Sealed returns the serialized material snapshot captured at registration,
// or nil for handles created without one.
func (h *Handle) Sealed() []byte {
	return h.sealed
}

// HasUsage reports whether the handle permits the named operation.
func (h *Handle) HasUsage(usage string) bool {
	for _, u := range h.Usages {
		if u == usage {
			return true
		}
	}
	return false
}

// handleJSON is the wire shape of a handle, including the sealed snapshot so
// a deserialized handle keeps its rehydration capability.
type handleJSON struct {
	ID          string     `json:"id"`
	Algorithm   *Algorithm `json:"algorithm,omitempty"`
	Type        KeyClass   `json:"type"`
	Extractable bool       `json:"extractable"`
	Usages      []string   `json:"usages"`
	Sealed      []byte     `json:"sealed,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (h *Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(handleJSON{
		ID:          h.ID,
		Algorithm:   h.Algorithm,
		Type:        h.Type,
		Extractable: h.Extractable,
		Usages:      h.Usages,
		Sealed:      h.sealed,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Handle) UnmarshalJSON(data []byte) error {
	var wire handleJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to deserialize key handle: %w", err)
	}
	h.ID = wire.ID
	h.Algorithm = wire.Algorithm
	h.Type = wire.Type
	h.Extractable = wire.Extractable
	h.Usages = wire.Usages
	h.sealed = wire.Sealed
	return nil
}
