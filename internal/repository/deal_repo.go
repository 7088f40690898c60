package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).First(&deal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) GetByPublicToken(ctx context.Context, token string) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).Where("public_token = ?", token).First(&deal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// CompareAndSwapStage moves the deal to a new stage only if it is still on
// the expected one. The guarded UPDATE is what makes concurrent transitions
// safe: the loser sees zero affected rows and must re-read.
func (r *DealRepository) CompareAndSwapStage(ctx context.Context, dealID int64, from, to domain.StageSlug) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("id = ? AND current_stage_slug = ?", dealID, from).
		Update("current_stage_slug", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListOpenIDs returns every deal not yet in a terminal stage, for the
// periodic refresh sweep.
func (r *DealRepository) ListOpenIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("current_stage_slug NOT IN ?", []domain.StageSlug{
			domain.StageApproved, domain.StageCanceled, domain.StageArchived,
		}).
		Pluck("id", &ids).Error
	return ids, err
}
