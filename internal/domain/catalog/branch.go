package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
)

// Branch is one company branch of the reference catalog. Allocation rows
// reference branches by code only; the catalog owns the records.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(code, name string) (*Branch, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Branch code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}

	now := time.Now()
	return &Branch{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate marks the branch as inactive
func (b *Branch) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
}
