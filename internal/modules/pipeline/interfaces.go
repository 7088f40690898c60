package pipeline

import (
	"context"
	"time"

	"studiopromise/internal/domain"
)

// DealRepository is the only writer of a deal's stage. CompareAndSwapStage
// must update the stage iff it still equals `from` and report whether the
// swap happened.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	CompareAndSwapStage(ctx context.Context, dealID int64, from, to domain.StageSlug) (bool, error)
}

// QuotationCounter reports how many quotations of a deal hold a given status.
type QuotationCounter interface {
	CountByDealAndStatus(ctx context.Context, dealID int64, status domain.QuotationStatus) (int64, error)
}

// ConflictChecker guards the per-day event capacity. Reserve must check and
// claim the date atomically; Release frees a claim when a swap loses.
type ConflictChecker interface {
	Reserve(ctx context.Context, studioID, dealID int64, date time.Time) error
	Release(ctx context.Context, dealID int64) error
}

// Notifier publishes change events for a deal topic.
type Notifier interface {
	Publish(event domain.ChangeEvent)
}
