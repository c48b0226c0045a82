// Package money provides decimal-safe monetary arithmetic. Amounts cross
// the package boundary as float64 (the canonical record is plain JSON) but
// every computation runs on integer minor units or shopspring decimals, so
// IEEE-754 artifacts like 10.005*100 == 1000.4999 never leak into totals.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// finite reports whether v can be represented as a decimal at all.
// shopspring panics on NaN and infinity, and non-finite amounts are
// handled as rule violations upstream, never as arithmetic input.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Cents converts an amount to integer minor units, rounding half up.
// NewFromFloat recovers the shortest decimal representation, so a
// 3+-decimal input like 10.005 rounds to 1001 rather than 1000.
// Non-finite input converts to zero.
func Cents(v float64) int64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Mul(hundred).Round(0).IntPart()
}

// FromCents converts integer minor units back to a float amount.
func FromCents(c int64) float64 {
	f, _ := decimal.NewFromInt(c).Div(hundred).Float64()
	return f
}

// Add adds two amounts exactly.
func Add(a, b float64) float64 {
	return FromCents(Cents(a) + Cents(b))
}

// Sub subtracts b from a exactly.
func Sub(a, b float64) float64 {
	return FromCents(Cents(a) - Cents(b))
}

// Sum sums a slice of amounts with zero cumulative drift.
func Sum(values []float64) float64 {
	var total int64
	for _, v := range values {
		total += Cents(v)
	}
	return FromCents(total)
}

// ComputeTax computes basis * ratePercent / 100, rounded half up to
// 2 decimal places.
func ComputeTax(basis, ratePercent float64) float64 {
	if !finite(basis) || !finite(ratePercent) {
		return 0
	}
	tax := decimal.NewFromFloat(basis).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(hundred).
		Round(2)
	f, _ := tax.Float64()
	return f
}

// Round2 rounds an amount half up to 2 decimal places.
func Round2(v float64) float64 {
	if !finite(v) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Equal compares two amounts exactly. tolerance is the maximum allowed
// difference; zero means strict equality, so a sub-cent discrepancy like
// 100.004 vs 100.00 still fails. Callers opt in to fuzzy comparison
// explicitly, masking real discrepancies by default would be a
// correctness bug.
// A non-finite operand never compares equal.
func Equal(a, b, tolerance float64) bool {
	if !finite(a) || !finite(b) {
		return false
	}
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(tolerance))
}
