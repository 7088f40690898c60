package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) GetWithItems(ctx context.Context, id int64) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).Preload("Items").First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) Update(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Save(q).Error
}

// Activate promotes one quotation and demotes its active siblings in a
// single transaction, so the one-active-per-deal invariant holds even under
// concurrent activations.
func (r *QuotationRepository) Activate(ctx context.Context, dealID, quotationID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("deal_id = ? AND id <> ? AND status = ?", dealID, quotationID, domain.QuotationActive).
			Update("status", domain.QuotationDraft).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.Quotation{}).
			Where("id = ? AND deal_id = ?", quotationID, dealID).
			Update("status", domain.QuotationActive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *QuotationRepository) CountByDealAndStatus(ctx context.Context, dealID int64, status domain.QuotationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("deal_id = ? AND status = ?", dealID, status).
		Count(&count).Error
	return count, err
}
