package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"studiopromise/internal/domain"
)

// Breakdown is the computed price decomposition of a quotation. It is derived
// on demand and never persisted or mutated in place.
type Breakdown struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	CourtesyAmount    decimal.Decimal `json:"courtesy_amount"`
	BonusAmount       decimal.Decimal `json:"bonus_amount"`
	ProjectedSubtotal decimal.Decimal `json:"projected_subtotal"`
	PriceToCharge     decimal.Decimal `json:"price_to_charge"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	NetProfit         decimal.Decimal `json:"net_profit"`
}

var one = decimal.NewFromInt(1)

// Compute turns quote items plus studio config into a price breakdown.
// Pure and deterministic: no I/O, identical input yields identical output.
// Malformed input fails fast with ErrValidation; the engine never clamps.
// A negative net profit is a valid result — callers decide what to do with
// an unprofitable quote.
func Compute(items []domain.QuoteItem, cfg *domain.PricingConfig, bonus decimal.Decimal) (*Breakdown, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing pricing config", ErrValidation)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if bonus.IsNegative() {
		return nil, fmt.Errorf("%w: bonus must not be negative", ErrValidation)
	}

	b := &Breakdown{
		Subtotal:          decimal.Zero,
		CourtesyAmount:    decimal.Zero,
		BonusAmount:       bonus,
		ProjectedSubtotal: decimal.Zero,
		PriceToCharge:     decimal.Zero,
		TotalCost:         decimal.Zero,
		TotalExpense:      decimal.Zero,
		CommissionAmount:  decimal.Zero,
		NetProfit:         decimal.Zero,
	}
	if len(items) == 0 && bonus.IsZero() {
		return b, nil
	}

	for _, it := range items {
		if it.Quantity < 0 {
			return nil, fmt.Errorf("%w: negative quantity for item %q", ErrValidation, it.Name)
		}

		margin, err := marginFor(it.Category, cfg)
		if err != nil {
			return nil, err
		}

		qty := decimal.NewFromInt(int64(it.Quantity))

		// Margin applies to the full internal unit figure (cost + expense).
		unitPrice := it.UnitCost.Add(it.UnitExpense).Mul(one.Add(margin))
		lineSubtotal := unitPrice.Mul(qty)

		if it.IsCourtesy {
			// Billable-equivalent value, reported but never charged.
			b.CourtesyAmount = b.CourtesyAmount.Add(lineSubtotal)
		} else {
			b.Subtotal = b.Subtotal.Add(lineSubtotal)
		}

		// Cost and expense count for every item, courtesies included.
		b.TotalCost = b.TotalCost.Add(it.UnitCost.Mul(qty))
		b.TotalExpense = b.TotalExpense.Add(it.UnitExpense.Mul(qty))
	}

	b.ProjectedSubtotal = b.Subtotal.Sub(b.CourtesyAmount).Sub(bonus)
	b.PriceToCharge = applyRounding(b.ProjectedSubtotal, cfg.RoundingPolicy, cfg.MagicRoundingStep)

	// Commission always reads the commission rate, never the markup rate.
	b.CommissionAmount = b.PriceToCharge.Mul(cfg.SalesCommissionRate)
	b.NetProfit = b.PriceToCharge.
		Sub(b.TotalCost).
		Sub(b.TotalExpense).
		Sub(b.CommissionAmount)

	return b, nil
}

func marginFor(cat domain.ItemCategory, cfg *domain.PricingConfig) (decimal.Decimal, error) {
	switch cat {
	case domain.CategoryService:
		return cfg.ServiceMargin, nil
	case domain.CategoryProduct:
		return cfg.ProductMargin, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown item category %q", ErrValidation, cat)
	}
}

func validateConfig(cfg *domain.PricingConfig) error {
	ratios := map[string]decimal.Decimal{
		"service_margin":        cfg.ServiceMargin,
		"product_margin":        cfg.ProductMargin,
		"sales_commission_rate": cfg.SalesCommissionRate,
		"markup_rate":           cfg.MarkupRate,
	}
	for name, r := range ratios {
		if r.IsNegative() || r.GreaterThanOrEqual(one) {
			return fmt.Errorf("%w: %s must be a ratio in [0, 1), got %s", ErrValidation, name, r)
		}
	}

	switch cfg.RoundingPolicy {
	case domain.RoundingExact:
	case domain.RoundingMagic:
		if !cfg.MagicRoundingStep.IsPositive() {
			return fmt.Errorf("%w: magic rounding requires a positive step", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown rounding policy %q", ErrValidation, cfg.RoundingPolicy)
	}

	return nil
}
