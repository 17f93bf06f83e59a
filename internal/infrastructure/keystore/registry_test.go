//go:build unit
// +build unit

package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

// fakeRepository is an in-memory stand-in for the persistent repository.
type fakeRepository struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{store: make(map[string][]byte)}
}

func (r *fakeRepository) Save(_ context.Context, id string, material *keys.KeyMaterial) error {
	data, err := material.Marshal()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[id] = data
	return nil
}

func (r *fakeRepository) Get(_ context.Context, id string) (*keys.KeyMaterial, error) {
	r.mu.Lock()
	data, ok := r.store[id]
	r.mu.Unlock()
	if !ok {
		return nil, webcrypto.ErrKeyNotFound
	}
	return keys.UnmarshalKeyMaterial(data)
}

func (r *fakeRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
	return nil
}

func secretMaterial(t *testing.T) *keys.KeyMaterial {
	t.Helper()
	alg := &keys.Algorithm{Name: webcrypto.AlgAESGCM, Length: 128}
	secret := testutil.MustHex(t, "000102030405060708090a0b0c0d0e0f")
	return keys.NewSecretKeyMaterial(keys.FamilyAES, secret, alg, true, []string{"encrypt", "decrypt"})
}

func TestRegistryRegisterResolve(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		material := secretMaterial(t)
		handle, err := reg.Register(ctx, material)
		assert.NoError(t, err)
		assert.NotEmpty(t, handle.ID)
		assert.Equal(t, keys.ClassSecret, handle.Type)
		assert.Equal(t, webcrypto.AlgAESGCM, handle.Algorithm.Name)
		assert.NotEmpty(t, handle.Sealed())

		resolved, err := reg.Resolve(ctx, handle)
		assert.NoError(t, err)
		assert.Same(t, material, resolved)
	})

	t.Run("DistinctRegistrationsGetDistinctIDs", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		a, err := reg.Register(ctx, secretMaterial(t))
		require.NoError(t, err)
		b, err := reg.Register(ctx, secretMaterial(t))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("NilMaterial", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		_, err = reg.Register(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("NilHandle", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		_, err = reg.Resolve(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("UnknownHandleWithoutSnapshot", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		handle := keys.NewHandle("missing", secretMaterial(t), nil)
		_, err = reg.Resolve(ctx, handle)
		assert.ErrorIs(t, err, webcrypto.ErrKeyNotFound)
	})
}

func TestRegistryRehydration(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	ctx := context.Background()

	t.Run("FromSealedSnapshotAcrossInstances", func(t *testing.T) {
		first, err := NewRegistry(nil, log)
		require.NoError(t, err)
		handle, err := first.Register(ctx, secretMaterial(t))
		require.NoError(t, err)

		// A fresh registry never saw the Register call.
		second, err := NewRegistry(nil, log)
		require.NoError(t, err)

		resolved, err := second.Resolve(ctx, handle)
		assert.NoError(t, err)
		assert.Equal(t, keys.FamilyAES, resolved.Family)
		assert.Equal(t, testutil.MustHex(t, "000102030405060708090a0b0c0d0e0f"), resolved.Raw)
	})

	t.Run("SerializedHandleKeepsSnapshot", func(t *testing.T) {
		first, err := NewRegistry(nil, log)
		require.NoError(t, err)
		handle, err := first.Register(ctx, secretMaterial(t))
		require.NoError(t, err)

		data, err := json.Marshal(handle)
		require.NoError(t, err)
		var restored keys.Handle
		require.NoError(t, json.Unmarshal(data, &restored))

		second, err := NewRegistry(nil, log)
		require.NoError(t, err)
		resolved, err := second.Resolve(ctx, &restored)
		assert.NoError(t, err)
		assert.Equal(t, keys.ClassSecret, resolved.Class)
	})

	t.Run("FromRepositoryWhenSnapshotAbsent", func(t *testing.T) {
		repo := newFakeRepository()
		first, err := NewRegistry(repo, log)
		require.NoError(t, err)
		handle, err := first.Register(ctx, secretMaterial(t))
		require.NoError(t, err)

		second, err := NewRegistry(repo, log)
		require.NoError(t, err)

		// Strip the snapshot so only the repository can answer.
		bare := keys.NewHandle(handle.ID, secretMaterial(t), nil)
		bareNoSnapshot := &keys.Handle{ID: handle.ID, Algorithm: bare.Algorithm, Type: bare.Type, Usages: bare.Usages}

		resolved, err := second.Resolve(ctx, bareNoSnapshot)
		assert.NoError(t, err)
		assert.Equal(t, keys.FamilyAES, resolved.Family)
	})

	t.Run("CorruptSnapshotFallsThrough", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		handle := keys.NewHandle("corrupt", secretMaterial(t), []byte("not json"))
		_, err = reg.Resolve(ctx, handle)
		assert.ErrorIs(t, err, webcrypto.ErrKeyNotFound)
	})

	t.Run("AlgorithmDescriptorBackfill", func(t *testing.T) {
		reg, err := NewRegistry(nil, log)
		require.NoError(t, err)

		material := secretMaterial(t)
		material.Algorithm = nil
		sealed, err := material.Marshal()
		require.NoError(t, err)

		withAlg := secretMaterial(t)
		handle := keys.NewHandle("backfill", withAlg, sealed)

		resolved, err := reg.Resolve(ctx, handle)
		assert.NoError(t, err)
		require.NotNil(t, resolved.Algorithm)
		assert.Equal(t, webcrypto.AlgAESGCM, resolved.Algorithm.Name)
	})
}

func TestRegistryConcurrency(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	ctx := context.Background()

	reg, err := NewRegistry(nil, log)
	require.NoError(t, err)

	handle, err := reg.Register(ctx, secretMaterial(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := reg.Resolve(ctx, handle); err != nil {
				errs <- fmt.Errorf("resolve %d: %w", n, err)
			}
			if _, err := reg.Register(ctx, secretMaterial(t)); err != nil {
				errs <- fmt.Errorf("register %d: %w", n, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
