package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

// VariantRepository resolves internal catalog variant keys to Shopify
// variants.
type VariantRepository interface {
	FindActiveByKeys(ctx context.Context, keys []string) ([]models.ProductVariant, error)
}

// GormVariantRepository implements VariantRepository using GORM.
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository.
func NewGormVariantRepository(db *gorm.DB) VariantRepository {
	return &GormVariantRepository{db: db}
}

func (r *GormVariantRepository) FindActiveByKeys(ctx context.Context, keys []string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(keys) == 0 {
		return variants, nil
	}
	if err := r.db.WithContext(ctx).
		Where("variant_key IN ? AND active = ?", keys, true).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
