package handler

import (
	"github.com/preinvoice/backend/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the branch, cost-center and payment-condition
// reference data that allocation rows and installment schedules depend on
type CatalogHandler struct {
	BaseHandler
	branches    catalog.BranchRepository
	costCenters catalog.CostCenterRepository
	conditions  catalog.PaymentConditionRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	branches catalog.BranchRepository,
	costCenters catalog.CostCenterRepository,
	conditions catalog.PaymentConditionRepository,
) *CatalogHandler {
	return &CatalogHandler{
		branches:    branches,
		costCenters: costCenters,
		conditions:  conditions,
	}
}

// RegisterRoutes registers the catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalogGroup := rg.Group("/catalog")
	{
		catalogGroup.GET("/branches", h.ListBranches)
		catalogGroup.POST("/branches", h.CreateBranch)
		catalogGroup.GET("/cost-centers", h.ListCostCenters)
		catalogGroup.POST("/cost-centers", h.CreateCostCenter)
		catalogGroup.GET("/payment-conditions", h.ListPaymentConditions)
		catalogGroup.POST("/payment-conditions", h.CreatePaymentCondition)
	}
}

// BranchRequest carries a new branch
type BranchRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CostCenterRequest carries a new cost center
type CostCenterRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// PaymentConditionRequest carries a new payment condition
type PaymentConditionRequest struct {
	Code         string `json:"code" binding:"required"`
	Description  string `json:"description"`
	Installments int    `json:"installments" binding:"required,min=1"`
	FirstDueDays int    `json:"first_due_days" binding:"min=0"`
	IntervalDays int    `json:"interval_days" binding:"min=0"`
}

// BranchResponse is one branch of the catalog
type BranchResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CostCenterResponse is one cost center of the catalog
type CostCenterResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PaymentConditionResponse is one payment condition of the catalog
type PaymentConditionResponse struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	Installments int    `json:"installments"`
	FirstDueDays int    `json:"first_due_days"`
	IntervalDays int    `json:"interval_days"`
}

// ListBranches returns the branch catalog
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	branches, err := h.branches.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		resp = append(resp, BranchResponse{Code: b.Code, Name: b.Name, Active: b.Active})
	}
	h.Success(c, resp)
}

// CreateBranch adds a branch to the catalog
func (h *CatalogHandler) CreateBranch(c *gin.Context) {
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	branch, err := catalog.NewBranch(req.Code, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.branches.Save(c.Request.Context(), branch); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, BranchResponse{Code: branch.Code, Name: branch.Name, Active: branch.Active})
}

// ListCostCenters returns the cost-center catalog
func (h *CatalogHandler) ListCostCenters(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	costCenters, err := h.costCenters.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]CostCenterResponse, 0, len(costCenters))
	for _, cc := range costCenters {
		resp = append(resp, CostCenterResponse{Code: cc.Code, Name: cc.Name, Active: cc.Active})
	}
	h.Success(c, resp)
}

// CreateCostCenter adds a cost center to the catalog
func (h *CatalogHandler) CreateCostCenter(c *gin.Context) {
	var req CostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	costCenter, err := catalog.NewCostCenter(req.Code, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.costCenters.Save(c.Request.Context(), costCenter); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CostCenterResponse{Code: costCenter.Code, Name: costCenter.Name, Active: costCenter.Active})
}

// ListPaymentConditions returns the payment-condition catalog
func (h *CatalogHandler) ListPaymentConditions(c *gin.Context) {
	conditions, err := h.conditions.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]PaymentConditionResponse, 0, len(conditions))
	for _, pc := range conditions {
		resp = append(resp, PaymentConditionResponse{
			Code:         pc.Code,
			Description:  pc.Description,
			Installments: pc.Installments,
			FirstDueDays: pc.FirstDueDays,
			IntervalDays: pc.IntervalDays,
		})
	}
	h.Success(c, resp)
}

// CreatePaymentCondition adds a payment condition to the catalog
func (h *CatalogHandler) CreatePaymentCondition(c *gin.Context) {
	var req PaymentConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	condition, err := catalog.NewPaymentCondition(req.Code, req.Description, req.Installments, req.FirstDueDays, req.IntervalDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.conditions.Save(c.Request.Context(), condition); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, PaymentConditionResponse{
		Code:         condition.Code,
		Description:  condition.Description,
		Installments: condition.Installments,
		FirstDueDays: condition.FirstDueDays,
		IntervalDays: condition.IntervalDays,
	})
}
