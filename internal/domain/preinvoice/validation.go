package preinvoice

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ViolationGroup identifies which view of the draft a violation belongs to
type ViolationGroup string

const (
	ViolationGroupItems        ViolationGroup = "items"
	ViolationGroupInstallments ViolationGroup = "installments"
	ViolationGroupAllocations  ViolationGroup = "allocations"
)

// Violation codes
const (
	ViolationInstallmentSum    = "INSTALLMENT_SUM_MISMATCH"
	ViolationAllocationSum     = "ALLOCATION_SUM_MISMATCH"
	ViolationPercentageSum     = "PERCENTAGE_SUM_MISMATCH"
	ViolationMissingBranch     = "MISSING_BRANCH"
	ViolationMissingCostCenter = "MISSING_COST_CENTER"
	ViolationNonPositiveValue  = "NON_POSITIVE_VALUE"
)

// Violation describes one failed consistency check. Group-level violations
// carry no row/field reference; field-level violations point at one row.
type Violation struct {
	Group   ViolationGroup `json:"group"`
	RowID   uuid.UUID      `json:"row_id,omitempty"`
	Field   string         `json:"field,omitempty"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
}

// ValidationResult is the verdict of one validator run. Violations are
// advisory state, not errors: the draft stays editable while failing, and
// only submission is blocked.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

func (r *ValidationResult) add(v Violation) {
	r.Violations = append(r.Violations, v)
	r.Valid = false
}

// HasGroup returns true if any violation belongs to the given group
func (r ValidationResult) HasGroup(group ViolationGroup) bool {
	for _, v := range r.Violations {
		if v.Group == group {
			return true
		}
	}
	return false
}

// ConsistencyValidator checks the cross-view monetary invariants of a draft
// against the resolved document total. All sum comparisons use a fixed
// currency-unit tolerance.
type ConsistencyValidator struct {
	tolerance decimal.Decimal
}

// NewConsistencyValidator creates a validator with the standard tolerance
func NewConsistencyValidator() *ConsistencyValidator {
	return &ConsistencyValidator{tolerance: Tolerance}
}

// Validate re-evaluates every invariant. Checks are independent; all must
// hold for the draft to be submittable.
func (v *ConsistencyValidator) Validate(documentTotal decimal.Decimal, installments []*Installment, allocations []*Allocation) ValidationResult {
	result := ValidationResult{Valid: true}

	installmentSum := SumInstallments(installments)
	if installmentSum.Sub(documentTotal).Abs().GreaterThan(v.tolerance) {
		result.add(Violation{
			Group:   ViolationGroupInstallments,
			Code:    ViolationInstallmentSum,
			Message: fmt.Sprintf("sum of installments (%s) differs from item total (%s)", installmentSum.StringFixed(2), documentTotal.StringFixed(2)),
		})
	}

	valueSum := SumAllocationValues(allocations)
	if valueSum.Sub(documentTotal).Abs().GreaterThan(v.tolerance) {
		result.add(Violation{
			Group:   ViolationGroupAllocations,
			Code:    ViolationAllocationSum,
			Message: fmt.Sprintf("sum of allocated values (%s) differs from item total (%s)", valueSum.StringFixed(2), documentTotal.StringFixed(2)),
		})
	}

	if len(allocations) > 0 {
		pctSum := SumAllocationPercentages(allocations)
		if pctSum.Sub(oneHundred).Abs().GreaterThan(v.tolerance) {
			result.add(Violation{
				Group:   ViolationGroupAllocations,
				Code:    ViolationPercentageSum,
				Message: fmt.Sprintf("sum of percentages (%s) must equal 100%%", pctSum.StringFixed(2)),
			})
		}
	}

	for _, alloc := range allocations {
		if strings.TrimSpace(alloc.BranchCode) == "" {
			result.add(Violation{
				Group:   ViolationGroupAllocations,
				RowID:   alloc.ID,
				Field:   "branch_code",
				Code:    ViolationMissingBranch,
				Message: "allocation row has no branch",
			})
		}
		if strings.TrimSpace(alloc.CostCenterCode) == "" {
			result.add(Violation{
				Group:   ViolationGroupAllocations,
				RowID:   alloc.ID,
				Field:   "cost_center_code",
				Code:    ViolationMissingCostCenter,
				Message: "allocation row has no cost center",
			})
		}
		if !alloc.Value.IsPositive() {
			result.add(Violation{
				Group:   ViolationGroupAllocations,
				RowID:   alloc.ID,
				Field:   "value",
				Code:    ViolationNonPositiveValue,
				Message: "allocation value must be positive",
			})
		}
	}

	return result
}
