package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

type EventBookingRepository struct {
	db *gorm.DB
}

func NewEventBookingRepository(db *gorm.DB) *EventBookingRepository {
	return &EventBookingRepository{db: db}
}

func (r *EventBookingRepository) CountForDate(ctx context.Context, studioID int64, date time.Time) (int64, []int64, error) {
	var bookings []domain.EventBooking
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND event_date = ?", studioID, date).
		Find(&bookings).Error
	if err != nil {
		return 0, nil, err
	}

	dealIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		dealIDs = append(dealIDs, b.DealID)
	}
	return int64(len(bookings)), dealIDs, nil
}

// CreateWithinLimit counts and inserts inside one transaction so two
// concurrent approvals for the last slot cannot both get it. The unique
// index on deal_id additionally keeps retries idempotent at the DB level.
func (r *EventBookingRepository) CreateWithinLimit(ctx context.Context, b *domain.EventBooking, limit int) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.EventBooking{}).
			Where("studio_id = ? AND event_date = ?", b.StudioID, b.EventDate).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return nil
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *EventBookingRepository) GetByDeal(ctx context.Context, dealID int64) (*domain.EventBooking, error) {
	var b domain.EventBooking
	err := r.db.WithContext(ctx).Where("deal_id = ?", dealID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *EventBookingRepository) DeleteByDeal(ctx context.Context, dealID int64) error {
	return r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Delete(&domain.EventBooking{}).Error
}
