package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/persistence/models"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

type gormMaterialRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormMaterialRepository creates a new GORM-based MaterialRepository implementation
func NewGormMaterialRepository(db *gorm.DB, logger logger.Logger) (keys.MaterialRepository, error) {
	return &gormMaterialRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Save persists serialized key material under its handle ID. Saving the same
// ID again overwrites the row, which keeps re-registration idempotent.
func (r *gormMaterialRepository) Save(ctx context.Context, id string, material *keys.KeyMaterial) error {
	model := &models.KeyMaterialModel{}
	if err := model.FromDomain(id, material); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to persist key material: %w", err)
	}

	r.logger.Info("Persisted key material with id ", id)
	return nil
}

// Get loads key material by handle ID.
func (r *gormMaterialRepository) Get(ctx context.Context, id string) (*keys.KeyMaterial, error) {
	var model models.KeyMaterialModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, webcrypto.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to fetch key material: %w", err)
	}
	return model.ToDomain()
}

// DeleteByID removes stored key material.
func (r *gormMaterialRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.KeyMaterialModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete key material: %w", err)
	}

	r.logger.Info("Deleted key material with id ", id)
	return nil
}
