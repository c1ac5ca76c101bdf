package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyDiscountPercent returns base * (1 - percent/100) rounded half-up to a minor unit.
// The percent is clamped to [0, 100].
func ApplyDiscountPercent(base int64, percent decimal.Decimal) int64 {
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	return decimal.NewFromInt(base).Mul(hundred.Sub(percent)).Div(hundred).Round(0).IntPart()
}
