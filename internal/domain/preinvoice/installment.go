package preinvoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Installment represents one scheduled payment slice of the document total.
// Value is absolute only; installments carry no percentage representation.
type Installment struct {
	ID      uuid.UUID
	Number  int
	DueDate time.Time
	Value   decimal.Decimal
}

// NewInstallment creates a new installment
func NewInstallment(number int, dueDate time.Time, value decimal.Decimal) (*Installment, error) {
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Installment number must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Installment due date cannot be empty")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Installment value must be positive")
	}
	return &Installment{
		ID:      uuid.New(),
		Number:  number,
		DueDate: dueDate,
		Value:   value.Round(2),
	}, nil
}

// SumInstallments returns the sum of all installment values
func SumInstallments(installments []*Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.Value)
	}
	return total
}
