package persistence

import (
	"context"
	"errors"

	"github.com/preinvoice/backend/internal/domain/catalog"
	"github.com/preinvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *catalog.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// FindByCode finds a branch by its code
func (r *GormBranchRepository) FindByCode(ctx context.Context, code string) (*catalog.Branch, error) {
	var branch catalog.Branch
	if err := r.db.WithContext(ctx).First(&branch, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// List returns branches ordered by code, optionally only the active ones
func (r *GormBranchRepository) List(ctx context.Context, activeOnly bool) ([]*catalog.Branch, error) {
	var branches []*catalog.Branch
	query := r.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Exists checks if an active branch with the given code exists
func (r *GormBranchRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Branch{}).
		Where("code = ? AND active = ?", code, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormBranchRepository implements BranchRepository
var _ catalog.BranchRepository = (*GormBranchRepository)(nil)
