//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/persistence/models"
	"github.com/sdaliyot/webcrypto/internal/pkg/config"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

type repositoryTestContext struct {
	DB   *gorm.DB
	Repo keys.MaterialRepository
}

func setupTestRepository(t *testing.T) *repositoryTestContext {
	t.Helper()
	log := testutil.SetupTestLogger(t)

	settings := &config.DatabaseSettings{Type: config.SqliteDbType}
	db, err := NewDBConnection(settings)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KeyMaterialModel{}))

	repo, err := NewGormMaterialRepository(db, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = CloseDB(db)
	})
	return &repositoryTestContext{DB: db, Repo: repo}
}

func testMaterial() *keys.KeyMaterial {
	alg := &keys.Algorithm{Name: webcrypto.AlgAESGCM, Length: 128}
	return keys.NewSecretKeyMaterial(keys.FamilyAES, make([]byte, 16), alg, true, []string{"encrypt", "decrypt"})
}

func TestMaterialSqliteRepository_SaveAndGet(t *testing.T) {
	tc := setupTestRepository(t)
	id := uuid.NewString()

	err := tc.Repo.Save(context.Background(), id, testMaterial())
	require.NoError(t, err)

	fetched, err := tc.Repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, keys.FamilyAES, fetched.Family)
	assert.Equal(t, keys.ClassSecret, fetched.Class)
	assert.Equal(t, make([]byte, 16), fetched.Raw)
}

func TestMaterialSqliteRepository_SaveIsIdempotent(t *testing.T) {
	tc := setupTestRepository(t)
	id := uuid.NewString()

	require.NoError(t, tc.Repo.Save(context.Background(), id, testMaterial()))
	require.NoError(t, tc.Repo.Save(context.Background(), id, testMaterial()))

	var count int64
	require.NoError(t, tc.DB.Model(&models.KeyMaterialModel{}).Where("id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMaterialSqliteRepository_GetMissing(t *testing.T) {
	tc := setupTestRepository(t)

	_, err := tc.Repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, webcrypto.ErrKeyNotFound)
}

func TestMaterialSqliteRepository_DeleteByID(t *testing.T) {
	tc := setupTestRepository(t)
	id := uuid.NewString()

	require.NoError(t, tc.Repo.Save(context.Background(), id, testMaterial()))
	require.NoError(t, tc.Repo.DeleteByID(context.Background(), id))

	_, err := tc.Repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, webcrypto.ErrKeyNotFound)
}
