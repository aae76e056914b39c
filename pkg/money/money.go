// Package money centralizes currency arithmetic. All sale economics are
// computed with decimals and rounded to 2dp at every step; float64 exists
// only at the storage and JSON boundary.
package money

import "github.com/shopspring/decimal"

// Tolerance is the accepted rounding discrepancy, in currency units,
// when comparing amounts that were rounded independently.
var Tolerance = decimal.NewFromFloat(0.01)

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float64 boundary value into a decimal.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// ToFloat converts a decimal back to the float64 boundary representation.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Percent applies pct (expressed as 0..100) to amount and rounds to 2dp.
func Percent(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
