package wealth

import (
	"math"

	"github.com/shopspring/decimal"
)

// All monetary values are float64 in the data model, arithmetic goes through
// decimal so that sums and roundings are exact.

var half = decimal.New(5, -1)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// dec is a NaN-safe factory for decimal.Decimal: NaN and infinities are zero.
func dec(v float64) decimal.Decimal {
	if !finite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// sanitize returns v, or 0 when v is NaN, infinite or negative.
func sanitize(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// roundHalfUp rounds to the nearest integer, halves going towards +Inf.
func roundHalfUp(d decimal.Decimal) decimal.Decimal { return d.Add(half).Floor() }

// Round rounds v to the nearest integer unit of currency, halves going up.
// NaN and infinities round to 0.
func Round(v float64) float64 { return roundHalfUp(dec(v)).InexactFloat64() }

// mulRound returns round(a * b).
func mulRound(a, b float64) float64 {
	return roundHalfUp(dec(a).Mul(dec(b))).InexactFloat64()
}
