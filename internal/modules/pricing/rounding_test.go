package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studiopromise/internal/domain"
)

func TestApplyRounding_ExactUntouched(t *testing.T) {
	got := applyRounding(dec("1234.56"), domain.RoundingExact, dec("500"))
	assert.True(t, got.Equal(dec("1234.56")))
}

func TestApplyRounding_MagicRoundsUp(t *testing.T) {
	cases := []struct {
		amount string
		step   string
		want   string
	}{
		{"1234.56", "500", "1500"},
		{"1500", "500", "1500"},
		{"1501", "500", "2000"},
		{"3120", "100", "3200"},
		{"3120", "500", "3500"},
		{"1", "100", "100"},
	}
	for _, tc := range cases {
		got := applyRounding(dec(tc.amount), domain.RoundingMagic, dec(tc.step))
		assert.True(t, got.Equal(dec(tc.want)), "amount=%s step=%s: want %s, got %s", tc.amount, tc.step, tc.want, got)
	}
}

func TestApplyRounding_MagicNeverDecreases(t *testing.T) {
	amounts := []string{"0.01", "99.99", "100", "100.01", "499.99", "500", "12345.67"}
	for _, a := range amounts {
		amount := dec(a)
		got := applyRounding(amount, domain.RoundingMagic, dec("500"))
		assert.True(t, got.GreaterThanOrEqual(amount), "amount=%s rounded down to %s", a, got)
	}
}

func TestApplyRounding_MagicLeavesNonPositiveAlone(t *testing.T) {
	got := applyRounding(dec("-250"), domain.RoundingMagic, dec("500"))
	assert.True(t, got.Equal(dec("-250")))

	got = applyRounding(dec("0"), domain.RoundingMagic, dec("500"))
	assert.True(t, got.Equal(dec("0")))
}
