package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
)

// CostCenter is one cost center of the reference catalog
type CostCenter struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CostCenter) TableName() string {
	return "cost_centers"
}

// NewCostCenter creates a new cost center
func NewCostCenter(code, name string) (*CostCenter, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Cost center code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cost center name cannot be empty")
	}

	now := time.Now()
	return &CostCenter{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate marks the cost center as inactive
func (c *CostCenter) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
