package pricing

import (
	"github.com/shopspring/decimal"

	"studiopromise/internal/domain"
)

// applyRounding maps a projected subtotal to the price actually charged.
// Exact leaves the amount untouched. Magic rounds up to the nearest multiple
// of the configured step — up only, so the charged price never drops below
// the projected subtotal.
func applyRounding(amount decimal.Decimal, policy domain.RoundingPolicy, step decimal.Decimal) decimal.Decimal {
	if policy != domain.RoundingMagic {
		return amount
	}
	if !amount.IsPositive() || !step.IsPositive() {
		return amount
	}
	return amount.Div(step).Ceil().Mul(step)
}
