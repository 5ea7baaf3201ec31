package preinvoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tolerance is the currency-unit tolerance used for all sum comparisons.
// It absorbs the rounding accumulated by per-row 2-decimal storage.
var Tolerance = decimal.New(1, -2) // 0.01

var oneHundred = decimal.NewFromInt(100)

// AllocationAmounts is the paired value/percentage representation of one
// allocation row. The engine always returns both, derived from whichever
// side the user last edited.
type AllocationAmounts struct {
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

// RemainingBudget returns the portion of the document total not yet covered
// by committed allocations, excluding the row being edited (uuid.Nil to
// exclude nothing). Never negative, rounded to 2 decimal places.
func RemainingBudget(allocations []*Allocation, documentTotal decimal.Decimal, excluding uuid.UUID) decimal.Decimal {
	allocated := decimal.Zero
	for _, alloc := range allocations {
		if alloc.ID == excluding {
			continue
		}
		allocated = allocated.Add(alloc.Value)
	}
	remaining := documentTotal.Sub(allocated).Round(2)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// SetValue computes the paired amounts for a value edit. The value is
// clamped to [0, remaining]; the percentage is derived from the clamped
// value. Clamping is a silent ceiling, not an error: callers surface the
// clamped result to the user.
func SetValue(newValue, documentTotal, remaining decimal.Decimal) AllocationAmounts {
	value := clamp(newValue, decimal.Zero, remaining)

	percentage := decimal.Zero
	if documentTotal.IsPositive() {
		percentage = value.Div(documentTotal).Mul(oneHundred).Round(2)
	}

	return AllocationAmounts{Value: value.Round(2), Percentage: percentage}
}

// SetPercentage computes the paired amounts for a percentage edit. The
// percentage is clamped to the remaining budget expressed as a percentage
// of the document total; the value is derived from the clamped percentage.
// Both sides are stored at 2 decimal places. The ceiling is truncated, not
// rounded, so the derived value never exceeds the remaining budget.
func SetPercentage(newPercentage, documentTotal, remaining decimal.Decimal) AllocationAmounts {
	remainingPct := decimal.Zero
	if documentTotal.IsPositive() {
		remainingPct = remaining.Div(documentTotal).Mul(oneHundred).Truncate(2)
	}
	percentage := clamp(newPercentage.Round(2), decimal.Zero, remainingPct)

	value := percentage.Div(oneHundred).Mul(documentTotal).Round(2)

	return AllocationAmounts{Value: value, Percentage: percentage}
}

func clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
