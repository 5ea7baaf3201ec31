package persistence

import (
	"context"
	"errors"

	"github.com/preinvoice/backend/internal/domain/catalog"
	"github.com/preinvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentConditionRepository implements PaymentConditionRepository using GORM
type GormPaymentConditionRepository struct {
	db *gorm.DB
}

// NewGormPaymentConditionRepository creates a new GormPaymentConditionRepository
func NewGormPaymentConditionRepository(db *gorm.DB) *GormPaymentConditionRepository {
	return &GormPaymentConditionRepository{db: db}
}

// Save creates or updates a payment condition
func (r *GormPaymentConditionRepository) Save(ctx context.Context, condition *catalog.PaymentCondition) error {
	return r.db.WithContext(ctx).Save(condition).Error
}

// FindByCode finds a payment condition by its code
func (r *GormPaymentConditionRepository) FindByCode(ctx context.Context, code string) (*catalog.PaymentCondition, error) {
	var condition catalog.PaymentCondition
	if err := r.db.WithContext(ctx).First(&condition, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &condition, nil
}

// List returns all payment conditions ordered by code
func (r *GormPaymentConditionRepository) List(ctx context.Context) ([]*catalog.PaymentCondition, error) {
	var conditions []*catalog.PaymentCondition
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&conditions).Error; err != nil {
		return nil, err
	}
	return conditions, nil
}

// Ensure GormPaymentConditionRepository implements PaymentConditionRepository
var _ catalog.PaymentConditionRepository = (*GormPaymentConditionRepository)(nil)
