package keys

import "context"

// Registry translates between public handles and internal key material.
// Implementations must tolerate concurrent Register/Resolve calls;
// re-registering an already present handle/material pair is idempotent.
type Registry interface {
	// Register stores the material and returns a frozen handle for it.
	Register(ctx context.Context, material *KeyMaterial) (*Handle, error)

	// Resolve returns the material a handle refers to. Handles unknown to
	// the in-memory table are rehydrated from their sealed snapshot or the
	// persistent repository before Resolve gives up.
	Resolve(ctx context.Context, handle *Handle) (*KeyMaterial, error)
}

// MaterialRepository persists serialized key material by handle ID so a
// registry can repair its table across process restarts.
type MaterialRepository interface {
	Save(ctx context.Context, id string, material *KeyMaterial) error
	Get(ctx context.Context, id string) (*KeyMaterial, error)
	DeleteByID(ctx context.Context, id string) error
}
