package persistence

import (
	"context"
	"errors"

	"github.com/preinvoice/backend/internal/domain/catalog"
	"github.com/preinvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCostCenterRepository implements CostCenterRepository using GORM
type GormCostCenterRepository struct {
	db *gorm.DB
}

// NewGormCostCenterRepository creates a new GormCostCenterRepository
func NewGormCostCenterRepository(db *gorm.DB) *GormCostCenterRepository {
	return &GormCostCenterRepository{db: db}
}

// Save creates or updates a cost center
func (r *GormCostCenterRepository) Save(ctx context.Context, costCenter *catalog.CostCenter) error {
	return r.db.WithContext(ctx).Save(costCenter).Error
}

// FindByCode finds a cost center by its code
func (r *GormCostCenterRepository) FindByCode(ctx context.Context, code string) (*catalog.CostCenter, error) {
	var costCenter catalog.CostCenter
	if err := r.db.WithContext(ctx).First(&costCenter, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &costCenter, nil
}

// List returns cost centers ordered by code, optionally only the active ones
func (r *GormCostCenterRepository) List(ctx context.Context, activeOnly bool) ([]*catalog.CostCenter, error) {
	var costCenters []*catalog.CostCenter
	query := r.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&costCenters).Error; err != nil {
		return nil, err
	}
	return costCenters, nil
}

// Exists checks if an active cost center with the given code exists
func (r *GormCostCenterRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.CostCenter{}).
		Where("code = ? AND active = ?", code, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormCostCenterRepository implements CostCenterRepository
var _ catalog.CostCenterRepository = (*GormCostCenterRepository)(nil)
