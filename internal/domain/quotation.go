package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationActive   QuotationStatus = "active"
	QuotationApproved QuotationStatus = "approved"
	QuotationCanceled QuotationStatus = "canceled"
)

type ItemCategory string

const (
	CategoryService ItemCategory = "service"
	CategoryProduct ItemCategory = "product"
)

// Quotation is a priced proposal attached to a deal. A deal may hold many
// quotations but at most one is active at a time.
type Quotation struct {
	ID                    int64           `json:"id"`
	DealID                int64           `json:"deal_id" gorm:"index" validate:"required"`
	Name                  string          `json:"name"`
	Status                QuotationStatus `json:"status" gorm:"index"`
	CommercialConditionID *int64          `json:"commercial_condition_id,omitempty"`
	BonusAmount           decimal.Decimal `json:"bonus_amount" gorm:"type:decimal(14,2)"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Items []QuoteItem `json:"items,omitempty" gorm:"foreignKey:QuotationID"`
}

// QuoteItem is a single line of a quotation. Cost and expense are internal
// figures, never shown to the prospect. Courtesy items contribute cost and
// expense but zero revenue.
type QuoteItem struct {
	ID          int64           `json:"id"`
	QuotationID int64           `json:"quotation_id" gorm:"index"`
	Name        string          `json:"name" validate:"required"`
	Category    ItemCategory    `json:"category"`
	UnitCost    decimal.Decimal `json:"unit_cost" gorm:"type:decimal(14,2)"`
	UnitExpense decimal.Decimal `json:"unit_expense" gorm:"type:decimal(14,2)"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	IsCourtesy  bool            `json:"is_courtesy"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
