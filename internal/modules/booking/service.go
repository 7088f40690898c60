package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"studiopromise/internal/domain"
)

// CapacityReport answers "is this date at capacity" for a studio.
type CapacityReport struct {
	IsFull             bool    `json:"is_full"`
	CurrentCount       int     `json:"current_count"`
	Limit              int     `json:"limit"`
	ConflictingDealIDs []int64 `json:"conflicting_deal_ids"`
}

// Service implements the booking-conflict collaborator consumed by the
// pipeline before an approval fixes an event date.
type Service struct {
	bookings     EventBookingRepository
	studios      StudioRepository
	defaultLimit int
}

func NewService(bookings EventBookingRepository, studios StudioRepository, defaultLimit int) *Service {
	return &Service{
		bookings:     bookings,
		studios:      studios,
		defaultLimit: defaultLimit,
	}
}

// Check reports the current occupancy of a studio date. Read-only; the
// authoritative claim happens in Reserve.
func (s *Service) Check(ctx context.Context, studioID int64, date time.Time) (*CapacityReport, error) {
	limit, err := s.limitFor(ctx, studioID)
	if err != nil {
		return nil, err
	}

	count, dealIDs, err := s.bookings.CountForDate(ctx, studioID, truncateToDay(date))
	if err != nil {
		return nil, err
	}

	return &CapacityReport{
		IsFull:             count >= int64(limit),
		CurrentCount:       int(count),
		Limit:              limit,
		ConflictingDealIDs: dealIDs,
	}, nil
}

// Reserve claims one event-day slot for a deal. The count and the insert run
// in one repository transaction; re-reserving the same date for the same
// deal is idempotent so a retried approval cannot double-book.
func (s *Service) Reserve(ctx context.Context, studioID, dealID int64, date time.Time) error {
	day := truncateToDay(date)

	existing, err := s.bookings.GetByDeal(ctx, dealID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.EventDate.Equal(day) {
			return nil
		}
		// The deal moved to another date; free the old slot first.
		if err := s.bookings.DeleteByDeal(ctx, dealID); err != nil {
			return err
		}
	}

	limit, err := s.limitFor(ctx, studioID)
	if err != nil {
		return err
	}

	created, err := s.bookings.CreateWithinLimit(ctx, &domain.EventBooking{
		StudioID:  studioID,
		DealID:    dealID,
		EventDate: day,
	}, limit)
	if err != nil {
		// A concurrent retry for the same deal hit the unique index: the
		// slot is already ours.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	if !created {
		return ErrCapacityExceeded
	}
	return nil
}

// Release frees a deal's reservation, if any. Used when an approval loses
// its compare-and-swap or an admin rolls an approved deal back.
func (s *Service) Release(ctx context.Context, dealID int64) error {
	return s.bookings.DeleteByDeal(ctx, dealID)
}

func (s *Service) limitFor(ctx context.Context, studioID int64) (int, error) {
	studio, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return 0, err
	}
	if studio == nil {
		return 0, ErrStudioNotFound
	}
	if studio.DailyEventLimit > 0 {
		return studio.DailyEventLimit, nil
	}
	return s.defaultLimit, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
