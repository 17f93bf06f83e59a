package keystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// registry struct that implements the keys.Registry interface
type registry struct {
	mu     sync.RWMutex
	table  map[string]*keys.KeyMaterial
	repo   keys.MaterialRepository
	logger logger.Logger
}

// NewRegistry creates a registry backed by an in-memory table. The
// repository is optional; when present, registered material is persisted and
// consulted as the last resolve fallback.
func NewRegistry(repo keys.MaterialRepository, logger logger.Logger) (keys.Registry, error) {
	return &registry{
		table:  make(map[string]*keys.KeyMaterial),
		repo:   repo,
		logger: logger,
	}, nil
}

// Register stores the material and returns a frozen handle for it. The
// handle carries a sealed snapshot of the material captured now, so it can
// be resolved by a registry instance that never saw this Register call.
func (r *registry) Register(ctx context.Context, material *keys.KeyMaterial) (*keys.Handle, error) {
	if material == nil {
		return nil, webcrypto.NewTypeError("cannot register nil key material")
	}

	sealed, err := material.Marshal()
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()

	r.mu.Lock()
	r.table[id] = material
	r.mu.Unlock()

	if r.repo != nil {
		if err := r.repo.Save(ctx, id, material); err != nil {
			return nil, fmt.Errorf("failed to persist key material: %w", err)
		}
	}

	r.logger.Info("Registered ", material.Family, " ", material.Class, " key with id ", id)
	return keys.NewHandle(id, material, sealed), nil
}

// Resolve returns the material a handle refers to. Lookup order: in-memory
// table, the handle's sealed snapshot, the persistent repository. Material
// recovered from a fallback is re-inserted into the table, which is
// idempotent when a concurrent Resolve raced to the same handle.
func (r *registry) Resolve(ctx context.Context, handle *keys.Handle) (*keys.KeyMaterial, error) {
	if handle == nil {
		return nil, webcrypto.NewTypeError("cannot resolve nil key handle")
	}

	r.mu.RLock()
	material, ok := r.table[handle.ID]
	r.mu.RUnlock()

	if !ok {
		material = r.rehydrate(ctx, handle)
	}
	if material == nil {
		return nil, webcrypto.ErrKeyNotFound
	}

	// Leniency: a missing algorithm descriptor on the material is repaired
	// from the handle rather than treated as an error.
	if material.Algorithm == nil && handle.Algorithm != nil {
		material.Algorithm = handle.Algorithm.KeyParams()
		r.logger.Warn("Backfilled missing algorithm descriptor on key ", handle.ID, " from its handle")
	}

	return material, nil
}

func (r *registry) rehydrate(ctx context.Context, handle *keys.Handle) *keys.KeyMaterial {
	if sealed := handle.Sealed(); len(sealed) > 0 {
		material, err := keys.UnmarshalKeyMaterial(sealed)
		if err == nil {
			r.logger.Warn("Rehydrated key ", handle.ID, " from its sealed snapshot")
			return r.insert(handle.ID, material)
		}
		r.logger.Warn("Discarded undecodable sealed snapshot on key ", handle.ID, ": ", err)
	}

	if r.repo != nil {
		material, err := r.repo.Get(ctx, handle.ID)
		if err == nil && material != nil {
			r.logger.Warn("Rehydrated key ", handle.ID, " from the persistent repository")
			return r.insert(handle.ID, material)
		}
	}

	return nil
}

// insert re-registers rehydrated material. The first inserted copy wins so
// concurrent resolvers of the same handle agree on one material instance.
func (r *registry) insert(id string, material *keys.KeyMaterial) *keys.KeyMaterial {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.table[id]; ok {
		return existing
	}
	r.table[id] = material
	return material
}
