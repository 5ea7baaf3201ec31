package preinvoice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInstallment(t *testing.T, number int, value string) *Installment {
	t.Helper()
	inst, err := NewInstallment(number, time.Now().AddDate(0, 0, 30*number), dec(value))
	require.NoError(t, err)
	return inst
}

func TestConsistencyValidator(t *testing.T) {
	validator := NewConsistencyValidator()

	t.Run("empty draft is valid", func(t *testing.T) {
		result := validator.Validate(dec("0"), nil, nil)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Violations)
	})

	t.Run("matching views are valid", func(t *testing.T) {
		installments := []*Installment{
			mustInstallment(t, 1, "50.00"),
			mustInstallment(t, 2, "50.00"),
		}
		allocations := []*Allocation{
			{ID: uuid.New(), BranchCode: "BR-1", CostCenterCode: "CC-1", Value: dec("100.00"), Percentage: dec("100.00")},
		}
		result := validator.Validate(dec("100.00"), installments, allocations)
		assert.True(t, result.Valid)
	})

	t.Run("one-cent drift stays within tolerance", func(t *testing.T) {
		installments := []*Installment{
			mustInstallment(t, 1, "33.33"),
			mustInstallment(t, 2, "33.33"),
			mustInstallment(t, 3, "33.33"),
		}
		result := validator.Validate(dec("100.00"), installments, nil)
		// 99.99 vs 100.00 is inside the 0.01 tolerance
		assert.False(t, result.HasGroup(ViolationGroupInstallments))
	})

	t.Run("installment sum mismatch", func(t *testing.T) {
		installments := []*Installment{mustInstallment(t, 1, "80.00")}
		result := validator.Validate(dec("100.00"), installments, nil)
		assert.False(t, result.Valid)
		assert.True(t, result.HasGroup(ViolationGroupInstallments))

		found := false
		for _, v := range result.Violations {
			if v.Code == ViolationInstallmentSum {
				found = true
				assert.Equal(t, ViolationGroupInstallments, v.Group)
				assert.Equal(t, uuid.Nil, v.RowID)
			}
		}
		assert.True(t, found)
	})

	t.Run("allocation sum and percentage mismatch", func(t *testing.T) {
		allocations := []*Allocation{
			{ID: uuid.New(), BranchCode: "BR-1", CostCenterCode: "CC-1", Value: dec("70.00"), Percentage: dec("70.00")},
		}
		result := validator.Validate(dec("100.00"), nil, allocations)
		assert.False(t, result.Valid)

		codes := make([]string, 0, len(result.Violations))
		for _, v := range result.Violations {
			codes = append(codes, v.Code)
		}
		assert.Contains(t, codes, ViolationAllocationSum)
		assert.Contains(t, codes, ViolationPercentageSum)
	})

	t.Run("no percentage check without allocation rows", func(t *testing.T) {
		result := validator.Validate(dec("0"), nil, nil)
		for _, v := range result.Violations {
			assert.NotEqual(t, ViolationPercentageSum, v.Code)
		}
	})

	t.Run("field-level violations carry the row id", func(t *testing.T) {
		rowID := uuid.New()
		allocations := []*Allocation{
			{ID: rowID, BranchCode: " ", CostCenterCode: "", Value: dec("0"), Percentage: dec("0")},
		}
		result := validator.Validate(dec("0"), nil, allocations)
		assert.False(t, result.Valid)

		byCode := make(map[string]Violation)
		for _, v := range result.Violations {
			byCode[v.Code] = v
		}

		branch, ok := byCode[ViolationMissingBranch]
		require.True(t, ok)
		assert.Equal(t, rowID, branch.RowID)
		assert.Equal(t, "branch_code", branch.Field)

		costCenter, ok := byCode[ViolationMissingCostCenter]
		require.True(t, ok)
		assert.Equal(t, "cost_center_code", costCenter.Field)

		value, ok := byCode[ViolationNonPositiveValue]
		require.True(t, ok)
		assert.Equal(t, "value", value.Field)
	})
}
