package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

type QuoteItemRepository struct {
	db *gorm.DB
}

func NewQuoteItemRepository(db *gorm.DB) *QuoteItemRepository {
	return &QuoteItemRepository{db: db}
}

func (r *QuoteItemRepository) Create(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuoteItemRepository) GetByID(ctx context.Context, id int64) (*domain.QuoteItem, error) {
	var item domain.QuoteItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteItemRepository) Update(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *QuoteItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.QuoteItem{}, id).Error
}

func (r *QuoteItemRepository) ListByQuotation(ctx context.Context, quotationID int64) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("id").
		Find(&items).Error
	return items, err
}
