package preinvoice

import (
	"context"
	"time"

	"github.com/preinvoice/backend/internal/domain/catalog"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/shopspring/decimal"
)

// PaymentScheduler adapts the payment-condition catalog to the
// PaymentConditionLookup port: it resolves the condition and turns its
// generated schedule into draft installments.
type PaymentScheduler struct {
	conditions catalog.PaymentConditionRepository
}

// NewPaymentScheduler creates a scheduler over the condition catalog
func NewPaymentScheduler(conditions catalog.PaymentConditionRepository) *PaymentScheduler {
	return &PaymentScheduler{conditions: conditions}
}

// Schedule implements preinvoice.PaymentConditionLookup
func (s *PaymentScheduler) Schedule(ctx context.Context, conditionCode string, baseDate time.Time, total decimal.Decimal) ([]*preinvoice.Installment, error) {
	condition, err := s.conditions.FindByCode(ctx, conditionCode)
	if err != nil {
		return nil, err
	}

	entries, err := condition.Schedule(baseDate, total)
	if err != nil {
		return nil, err
	}

	installments := make([]*preinvoice.Installment, 0, len(entries))
	for _, entry := range entries {
		installment, err := preinvoice.NewInstallment(entry.Number, entry.DueDate, entry.Value)
		if err != nil {
			return nil, err
		}
		installments = append(installments, installment)
	}
	return installments, nil
}

// CatalogGuard adapts the branch / cost-center repositories to the
// CatalogLookup port used to validate allocation row identifiers.
type CatalogGuard struct {
	branches    catalog.BranchRepository
	costCenters catalog.CostCenterRepository
}

// NewCatalogGuard creates a guard over the catalog repositories
func NewCatalogGuard(branches catalog.BranchRepository, costCenters catalog.CostCenterRepository) *CatalogGuard {
	return &CatalogGuard{branches: branches, costCenters: costCenters}
}

// BranchExists implements preinvoice.CatalogLookup
func (g *CatalogGuard) BranchExists(ctx context.Context, code string) (bool, error) {
	return g.branches.Exists(ctx, code)
}

// CostCenterExists implements preinvoice.CatalogLookup
func (g *CatalogGuard) CostCenterExists(ctx context.Context, code string) (bool, error) {
	return g.costCenters.Exists(ctx, code)
}
