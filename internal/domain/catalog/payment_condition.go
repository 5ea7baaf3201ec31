package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/preinvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentCondition describes how a document total is split into scheduled
// payments: how many installments, how long until the first one is due and
// the interval between consecutive ones.
type PaymentCondition struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Code         string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description  string    `gorm:"type:varchar(200);not null"`
	Installments int       `gorm:"not null"`
	FirstDueDays int       `gorm:"not null"`
	IntervalDays int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentCondition) TableName() string {
	return "payment_conditions"
}

// NewPaymentCondition creates a new payment condition
func NewPaymentCondition(code, description string, installments, firstDueDays, intervalDays int) (*PaymentCondition, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Payment condition code cannot be empty")
	}
	if installments <= 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be positive")
	}
	if firstDueDays < 0 {
		return nil, shared.NewDomainError("INVALID_FIRST_DUE", "First due offset cannot be negative")
	}
	if installments > 1 && intervalDays <= 0 {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Interval between installments must be positive")
	}

	now := time.Now()
	return &PaymentCondition{
		ID:           uuid.New(),
		Code:         code,
		Description:  strings.TrimSpace(description),
		Installments: installments,
		FirstDueDays: firstDueDays,
		IntervalDays: intervalDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ScheduleEntry is one generated payment slice
type ScheduleEntry struct {
	Number  int
	DueDate time.Time
	Value   decimal.Decimal
}

// Schedule splits the total into the condition's installments. The split is
// cent-exact: the entries always sum to the total, with the remainder cents
// spread over the earliest installments.
func (pc *PaymentCondition) Schedule(baseDate time.Time, total decimal.Decimal) ([]ScheduleEntry, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Schedule total must be positive")
	}

	parts, err := valueobject.NewMoneyBRL(total).Split(pc.Installments)
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, pc.Installments)
	for i := 0; i < pc.Installments; i++ {
		days := pc.FirstDueDays + i*pc.IntervalDays
		entries[i] = ScheduleEntry{
			Number:  i + 1,
			DueDate: baseDate.AddDate(0, 0, days),
			Value:   parts[i].Amount(),
		}
	}
	return entries, nil
}
