package catalog

import "context"

// BranchRepository provides access to the branch catalog
type BranchRepository interface {
	Save(ctx context.Context, branch *Branch) error
	FindByCode(ctx context.Context, code string) (*Branch, error)
	List(ctx context.Context, activeOnly bool) ([]*Branch, error)
	Exists(ctx context.Context, code string) (bool, error)
}

// CostCenterRepository provides access to the cost-center catalog
type CostCenterRepository interface {
	Save(ctx context.Context, costCenter *CostCenter) error
	FindByCode(ctx context.Context, code string) (*CostCenter, error)
	List(ctx context.Context, activeOnly bool) ([]*CostCenter, error)
	Exists(ctx context.Context, code string) (bool, error)
}

// PaymentConditionRepository provides access to the payment conditions
type PaymentConditionRepository interface {
	Save(ctx context.Context, condition *PaymentCondition) error
	FindByCode(ctx context.Context, code string) (*PaymentCondition, error)
	List(ctx context.Context) ([]*PaymentCondition, error)
}
