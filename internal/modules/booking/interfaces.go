package booking

import (
	"context"
	"time"

	"studiopromise/internal/domain"
)

// EventBookingRepository persists the per-day event reservations.
// CreateWithinLimit must count and insert in one transaction and report
// created=false when the day is already at the limit.
type EventBookingRepository interface {
	CountForDate(ctx context.Context, studioID int64, date time.Time) (int64, []int64, error)
	CreateWithinLimit(ctx context.Context, b *domain.EventBooking, limit int) (created bool, err error)
	GetByDeal(ctx context.Context, dealID int64) (*domain.EventBooking, error)
	DeleteByDeal(ctx context.Context, dealID int64) error
}

// StudioRepository resolves the studio's daily event limit.
type StudioRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
}
