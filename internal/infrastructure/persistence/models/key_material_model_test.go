//go:build unit
// +build unit

package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

func TestKeyMaterialModel(t *testing.T) {
	alg := &keys.Algorithm{Name: webcrypto.AlgAESGCM, Length: 256}
	material := keys.NewSecretKeyMaterial(keys.FamilyAES, make([]byte, 32), alg, true, []string{"encrypt"})

	t.Run("FromDomainPopulatesColumns", func(t *testing.T) {
		id := uuid.NewString()
		model := &KeyMaterialModel{}

		err := model.FromDomain(id, material)
		assert.NoError(t, err)
		assert.Equal(t, id, model.ID)
		assert.Equal(t, keys.FamilyAES, model.Family)
		assert.Equal(t, string(keys.ClassSecret), model.Class)
		assert.NotEmpty(t, model.Material)
		assert.False(t, model.DateTimeCreated.IsZero())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		model := &KeyMaterialModel{}
		require.NoError(t, model.FromDomain(uuid.NewString(), material))

		restored, err := model.ToDomain()
		assert.NoError(t, err)
		assert.Equal(t, material.Family, restored.Family)
		assert.Equal(t, material.Class, restored.Class)
		assert.Equal(t, material.Raw, restored.Raw)
		assert.Equal(t, material.Usages, restored.Usages)
		require.NotNil(t, restored.Algorithm)
		assert.Equal(t, webcrypto.AlgAESGCM, restored.Algorithm.Name)
	})

	t.Run("ToDomainRejectsCorruptPayload", func(t *testing.T) {
		model := &KeyMaterialModel{Material: []byte("not json")}
		_, err := model.ToDomain()
		assert.Error(t, err)
	})

	t.Run("TableName", func(t *testing.T) {
		assert.Equal(t, "key_materials", KeyMaterialModel{}.TableName())
	})
}
