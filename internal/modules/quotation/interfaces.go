package quotation

import (
	"context"

	"studiopromise/internal/domain"
)

type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	GetWithItems(ctx context.Context, id int64) (*domain.Quotation, error)
	Update(ctx context.Context, q *domain.Quotation) error
	// Activate marks the quotation active and demotes every sibling of the
	// same deal back to draft in one transaction.
	Activate(ctx context.Context, dealID, quotationID int64) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.QuoteItem) error
	GetByID(ctx context.Context, id int64) (*domain.QuoteItem, error)
	Update(ctx context.Context, item *domain.QuoteItem) error
	Delete(ctx context.Context, id int64) error
	ListByQuotation(ctx context.Context, quotationID int64) ([]domain.QuoteItem, error)
}

type DealReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
}

type PricingConfigProvider interface {
	GetByStudio(ctx context.Context, studioID int64) (*domain.PricingConfig, error)
}

type Notifier interface {
	Publish(event domain.ChangeEvent)
}
