package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiopromise/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func exactConfig() *domain.PricingConfig {
	return &domain.PricingConfig{
		StudioID:            1,
		ServiceMargin:       dec("0.30"),
		ProductMargin:       dec("0.25"),
		SalesCommissionRate: dec("0.10"),
		MarkupRate:          dec("0.15"),
		RoundingPolicy:      domain.RoundingExact,
		MagicRoundingStep:   dec("500"),
	}
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func TestCompute_SingleServiceItem(t *testing.T) {
	items := []domain.QuoteItem{
		{
			Name:        "Wedding session",
			Category:    domain.CategoryService,
			UnitCost:    dec("1000"),
			UnitExpense: dec("200"),
			Quantity:    2,
		},
	}

	b, err := Compute(items, exactConfig(), decimal.Zero)

	require.NoError(t, err)
	assertDecEqual(t, "3120", b.Subtotal)
	assertDecEqual(t, "0", b.CourtesyAmount)
	assertDecEqual(t, "3120", b.ProjectedSubtotal)
	assertDecEqual(t, "3120", b.PriceToCharge)
	assertDecEqual(t, "2000", b.TotalCost)
	assertDecEqual(t, "400", b.TotalExpense)
	assertDecEqual(t, "312", b.CommissionAmount)
	assertDecEqual(t, "408", b.NetProfit)
}

func TestCompute_Deterministic(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Album", Category: domain.CategoryProduct, UnitCost: dec("333.33"), UnitExpense: dec("66.67"), Quantity: 3},
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("1250.50"), UnitExpense: dec("99.99"), Quantity: 1},
	}
	cfg := exactConfig()
	bonus := dec("150")

	first, err := Compute(items, cfg, bonus)
	require.NoError(t, err)
	second, err := Compute(items, cfg, bonus)
	require.NoError(t, err)

	assert.Equal(t, first.PriceToCharge.String(), second.PriceToCharge.String())
	assert.Equal(t, first.NetProfit.String(), second.NetProfit.String())
	assert.Equal(t, first.Subtotal.String(), second.Subtotal.String())
}

func TestCompute_EmptyItems(t *testing.T) {
	b, err := Compute(nil, exactConfig(), decimal.Zero)

	require.NoError(t, err)
	assertDecEqual(t, "0", b.Subtotal)
	assertDecEqual(t, "0", b.PriceToCharge)
	assertDecEqual(t, "0", b.TotalCost)
	assertDecEqual(t, "0", b.TotalExpense)
	assertDecEqual(t, "0", b.CommissionAmount)
	assertDecEqual(t, "0", b.NetProfit)
}

func TestCompute_NegativeQuantity(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Prints", Category: domain.CategoryProduct, UnitCost: dec("100"), Quantity: -1},
	}

	_, err := Compute(items, exactConfig(), decimal.Zero)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_MissingConfig(t *testing.T) {
	_, err := Compute(nil, nil, decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_RatioOutOfRange(t *testing.T) {
	cfg := exactConfig()
	cfg.SalesCommissionRate = dec("1.0")

	_, err := Compute(nil, cfg, decimal.Zero)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_UnknownCategory(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Mystery", Category: "bundle", UnitCost: dec("10"), Quantity: 1},
	}

	_, err := Compute(items, exactConfig(), decimal.Zero)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_CourtesyContributesCostNotRevenue(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("1000"), UnitExpense: dec("200"), Quantity: 2},
		{Name: "Gift frame", Category: domain.CategoryProduct, UnitCost: dec("100"), UnitExpense: dec("20"), Quantity: 1, IsCourtesy: true},
	}

	b, err := Compute(items, exactConfig(), decimal.Zero)

	require.NoError(t, err)
	// Revenue side unchanged by the courtesy line.
	assertDecEqual(t, "3120", b.Subtotal)
	// Billable-equivalent value of the courtesy: (100+20)*1.25 = 150.
	assertDecEqual(t, "150", b.CourtesyAmount)
	assertDecEqual(t, "2970", b.ProjectedSubtotal)
	// Cost and expense include the courtesy line.
	assertDecEqual(t, "2100", b.TotalCost)
	assertDecEqual(t, "420", b.TotalExpense)
}

func TestCompute_BonusAppliedBeforeCommission(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("1000"), UnitExpense: dec("200"), Quantity: 2},
	}

	b, err := Compute(items, exactConfig(), dec("120"))

	require.NoError(t, err)
	assertDecEqual(t, "3000", b.ProjectedSubtotal)
	assertDecEqual(t, "3000", b.PriceToCharge)
	assertDecEqual(t, "300", b.CommissionAmount)
}

func TestCompute_NegativeBonusRejected(t *testing.T) {
	_, err := Compute(nil, exactConfig(), dec("-1"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompute_NegativeNetProfitIsValid(t *testing.T) {
	items := []domain.QuoteItem{
		// Courtesy-heavy quote: costs dwarf what is charged.
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("100"), UnitExpense: dec("10"), Quantity: 1},
		{Name: "Gift album", Category: domain.CategoryProduct, UnitCost: dec("5000"), UnitExpense: dec("500"), Quantity: 1, IsCourtesy: true},
	}

	b, err := Compute(items, exactConfig(), decimal.Zero)

	require.NoError(t, err)
	assert.True(t, b.NetProfit.IsNegative())
}

func TestCompute_ProfitIdentity(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("1234.56"), UnitExpense: dec("78.90"), Quantity: 2},
		{Name: "Album", Category: domain.CategoryProduct, UnitCost: dec("432.10"), UnitExpense: dec("21.09"), Quantity: 3},
		{Name: "Gift print", Category: domain.CategoryProduct, UnitCost: dec("55.55"), Quantity: 1, IsCourtesy: true},
	}
	cfg := exactConfig()
	cfg.RoundingPolicy = domain.RoundingMagic

	b, err := Compute(items, cfg, dec("99.99"))

	require.NoError(t, err)
	identity := b.PriceToCharge.
		Sub(b.TotalCost).
		Sub(b.TotalExpense).
		Sub(b.CommissionAmount)
	assert.True(t, b.NetProfit.Equal(identity), "net profit drifted: %s vs %s", b.NetProfit, identity)
}

func TestCompute_CommissionUsesCommissionRateNotMarkup(t *testing.T) {
	cfg := exactConfig()
	cfg.SalesCommissionRate = dec("0.10")
	cfg.MarkupRate = dec("0.50")
	items := []domain.QuoteItem{
		{Name: "Session", Category: domain.CategoryService, UnitCost: dec("1000"), Quantity: 1},
	}

	b, err := Compute(items, cfg, decimal.Zero)

	require.NoError(t, err)
	assertDecEqual(t, "130", b.CommissionAmount) // 1300 * 0.10, not * 0.50
}
