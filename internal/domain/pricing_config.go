package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoundingPolicy string

const (
	RoundingExact RoundingPolicy = "exact"
	RoundingMagic RoundingPolicy = "magic"
)

// PricingConfig is the studio-level margin configuration read by the pricing
// engine. All margin/commission values are ratios in [0, 1), never
// already-multiplied percentages. MarkupRate and SalesCommissionRate are
// deliberately separate named fields so they cannot be confused.
type PricingConfig struct {
	ID                  int64           `json:"id"`
	StudioID            int64           `json:"studio_id" gorm:"uniqueIndex"`
	ServiceMargin       decimal.Decimal `json:"service_margin" gorm:"type:decimal(6,4)"`
	ProductMargin       decimal.Decimal `json:"product_margin" gorm:"type:decimal(6,4)"`
	SalesCommissionRate decimal.Decimal `json:"sales_commission_rate" gorm:"type:decimal(6,4)"`
	MarkupRate          decimal.Decimal `json:"markup_rate" gorm:"type:decimal(6,4)"`
	RoundingPolicy      RoundingPolicy  `json:"rounding_policy"`
	MagicRoundingStep   decimal.Decimal `json:"magic_rounding_step" gorm:"type:decimal(14,2)"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
