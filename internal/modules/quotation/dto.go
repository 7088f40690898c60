package quotation

import "github.com/shopspring/decimal"

type CreateQuotationRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required,oneof=service product"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitExpense decimal.Decimal `json:"unit_expense"`
	Quantity    int             `json:"quantity" binding:"required,gte=1"`
	IsCourtesy  bool            `json:"is_courtesy"`
}

// UpdateItemRequest uses pointers so only fields the client actually sent are
// applied; the set of applied fields travels in the change event.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	UnitExpense *decimal.Decimal `json:"unit_expense,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	IsCourtesy  *bool            `json:"is_courtesy,omitempty"`
}

type SetBonusRequest struct {
	BonusAmount decimal.Decimal `json:"bonus_amount"`
}
