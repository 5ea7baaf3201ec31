package preinvoice

import (
	"strings"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Allocation represents one branch/cost-center slice of the document total,
// expressed as both an absolute value and a percentage. The two fields are
// kept synchronized by the allocation engine; neither is independently
// authoritative.
type Allocation struct {
	ID             uuid.UUID
	Sequence       int
	BranchCode     string
	CostCenterCode string
	Percentage     decimal.Decimal // 0-100
	Value          decimal.Decimal
	OriginID       int64 // backend record id, 0 until persisted by the submission endpoint
}

// newAllocation creates an allocation row after structural validation.
// Amounts must already have been computed by the allocation engine.
func newAllocation(sequence int, branchCode, costCenterCode string, amounts AllocationAmounts) (*Allocation, error) {
	branchCode = strings.TrimSpace(branchCode)
	costCenterCode = strings.TrimSpace(costCenterCode)
	if branchCode == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch code cannot be empty")
	}
	if costCenterCode == "" {
		return nil, shared.NewDomainError("INVALID_COST_CENTER", "Cost center code cannot be empty")
	}
	return &Allocation{
		ID:             uuid.New(),
		Sequence:       sequence,
		BranchCode:     branchCode,
		CostCenterCode: costCenterCode,
		Percentage:     amounts.Percentage,
		Value:          amounts.Value,
	}, nil
}

// SumAllocationValues returns the sum of all allocation values
func SumAllocationValues(allocations []*Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range allocations {
		total = total.Add(alloc.Value)
	}
	return total
}

// SumAllocationPercentages returns the sum of all allocation percentages
func SumAllocationPercentages(allocations []*Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range allocations {
		total = total.Add(alloc.Percentage)
	}
	return total
}
