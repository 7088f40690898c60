package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount as a display string like "$12.500,50".
// Dot as thousands separator, comma for decimals; two decimal places are
// kept only when the amount has a fractional part.
func Format(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	intPart := amount.Truncate(0)
	frac := amount.Sub(intPart)

	s := intPart.String()

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 5)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	if !frac.IsZero() {
		cents := frac.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		b.WriteByte(',')
		if cents < 10 {
			b.WriteByte('0')
		}
		b.WriteString(decimal.NewFromInt(cents).String())
	}

	return b.String()
}
