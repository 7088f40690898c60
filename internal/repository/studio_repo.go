package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

type StudioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

func (r *StudioRepository) Create(ctx context.Context, studio *domain.Studio) error {
	return r.db.WithContext(ctx).Create(studio).Error
}

func (r *StudioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	var studio domain.Studio
	err := r.db.WithContext(ctx).First(&studio, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &studio, nil
}

func (r *StudioRepository) GetBySlug(ctx context.Context, slug string) (*domain.Studio, error) {
	var studio domain.Studio
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&studio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &studio, nil
}
