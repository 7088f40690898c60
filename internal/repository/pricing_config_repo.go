package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiopromise/internal/domain"
)

type PricingConfigRepository struct {
	db *gorm.DB
}

func NewPricingConfigRepository(db *gorm.DB) *PricingConfigRepository {
	return &PricingConfigRepository{db: db}
}

func (r *PricingConfigRepository) GetByStudio(ctx context.Context, studioID int64) (*domain.PricingConfig, error) {
	var cfg domain.PricingConfig
	err := r.db.WithContext(ctx).Where("studio_id = ?", studioID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the studio's config, replacing the existing row keyed by the
// studio_id unique index.
func (r *PricingConfigRepository) Upsert(ctx context.Context, cfg *domain.PricingConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "studio_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"service_margin", "product_margin", "sales_commission_rate",
				"markup_rate", "rounding_policy", "magic_rounding_step", "updated_at",
			}),
		}).
		Create(cfg).Error
}
