package handler

import (
	appsvc "github.com/preinvoice/backend/internal/application/preinvoice"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/preinvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DraftHandler exposes the editing session of a pre-invoice draft
type DraftHandler struct {
	BaseHandler
	service *appsvc.DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(service *appsvc.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// RegisterRoutes registers the draft routes
func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.OpenSession)
		drafts.GET("/:id", h.GetDraft)
		drafts.DELETE("/:id", h.CloseSession)
		drafts.PUT("/:id/header", h.UpdateHeader)
		drafts.POST("/:id/import", h.ImportInvoice)

		drafts.POST("/:id/items", h.AddItem)
		drafts.PATCH("/:id/items/:itemId/quantity", h.UpdateItemQuantity)
		drafts.PATCH("/:id/items/:itemId/unit-price", h.UpdateItemUnitPrice)
		drafts.DELETE("/:id/items/:itemId", h.RemoveItem)

		drafts.POST("/:id/reconcile", h.Reconcile)
		drafts.POST("/:id/items/:itemId/link", h.LinkItem)
		drafts.GET("/:id/merges", h.PendingMerges)
		drafts.POST("/:id/merges/:itemId/confirm", h.ConfirmMerge)
		drafts.DELETE("/:id/merges/:itemId", h.RejectMerge)

		drafts.PUT("/:id/installments", h.SeedInstallments)

		drafts.POST("/:id/allocations", h.AddAllocation)
		drafts.PATCH("/:id/allocations/:allocationId/value", h.SetAllocationValue)
		drafts.PATCH("/:id/allocations/:allocationId/percentage", h.SetAllocationPercentage)
		drafts.DELETE("/:id/allocations/:allocationId", h.RemoveAllocation)

		drafts.PUT("/:id/attachments", h.SaveAttachments)

		drafts.GET("/:id/validation", h.Validation)
		drafts.POST("/:id/submit", h.Submit)
	}

	lookups := rg.Group("/lookups")
	{
		lookups.GET("/suppliers", h.SearchSuppliers)
		lookups.GET("/products", h.SearchProducts)
	}
}

// OpenSession starts a new editing session with an empty draft
func (h *DraftHandler) OpenSession(c *gin.Context) {
	id, draft := h.service.OpenSession()
	h.Created(c, dto.SessionResponse{
		SessionID: id.String(),
		Draft:     dto.ToDraftResponse(draft),
	})
}

// GetDraft returns the current draft state of a session
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	draft, err := h.service.GetDraft(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToDraftResponse(draft))
}

// CloseSession discards the session and its draft
func (h *DraftHandler) CloseSession(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	if err := h.service.CloseSession(id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateHeader replaces the editable header fields
func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.UpdateHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err = h.service.UpdateHeader(id, preinvoice.Header{
		DocumentNumber:       req.DocumentNumber,
		Series:               req.Series,
		EmissionDate:         req.EmissionDate,
		SupplierCode:         req.SupplierCode,
		SupplierName:         req.SupplierName,
		BranchCode:           req.BranchCode,
		PaymentConditionCode: req.PaymentConditionCode,
		Remark:               req.Remark,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// ImportInvoice fetches an electronic invoice and replaces the draft content
func (h *DraftHandler) ImportInvoice(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.ImportInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ImportInvoice(c.Request.Context(), id, preinvoice.InvoiceKey{AccessKey: req.AccessKey}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// AddItem appends a manually entered item
func (h *DraftHandler) AddItem(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.service.AddItem(id, appsvc.AddItemRequest{
		Sequence:            req.Sequence,
		SupplierProductCode: req.SupplierProductCode,
		SupplierDescription: req.SupplierDescription,
		Unit:                req.Unit,
		Quantity:            req.Quantity,
		UnitPrice:           req.UnitPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToItemResponse(item))
}

// UpdateItemQuantity changes one item quantity
func (h *DraftHandler) UpdateItemQuantity(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateItemQuantity(id, itemID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// UpdateItemUnitPrice changes one item unit price
func (h *DraftHandler) UpdateItemUnitPrice(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	var req dto.UpdateUnitPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateItemUnitPrice(id, itemID, req.UnitPrice); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// RemoveItem deletes an item from the draft
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	if err := h.service.RemoveItem(id, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// Reconcile merges the lines of a purchase order into the draft items
func (h *DraftHandler) Reconcile(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReconcileWithOrder(c.Request.Context(), id, req.SupplierCode, req.OrderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToReconcileResponse(result))
}

// LinkItem manually links one item to a purchase order line
func (h *DraftHandler) LinkItem(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	var req dto.LinkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	proposal, err := h.service.LinkItem(id, itemID, req.ToOrderLine())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToMergeProposalResponse(proposal))
}

// PendingMerges lists the merges awaiting explicit confirmation
func (h *DraftHandler) PendingMerges(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	draft, err := h.service.GetDraft(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	pending := draft.PendingMerges()
	resp := make([]dto.MergeProposalResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, dto.ToMergeProposalResponse(p))
	}
	h.Success(c, resp)
}

// ConfirmMerge resolves a pending unit divergence with the final quantity
func (h *DraftHandler) ConfirmMerge(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	var req dto.ConfirmMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ConfirmMerge(id, itemID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// RejectMerge discards a pending merge proposal
func (h *DraftHandler) RejectMerge(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	itemID, err := rowID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	if err := h.service.RejectMerge(id, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SeedInstallments replaces the installment schedule from a payment condition
func (h *DraftHandler) SeedInstallments(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.SeedInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SeedInstallments(c.Request.Context(), id, req.ConditionCode, req.BaseDate); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// AddAllocation appends a new allocation row
func (h *DraftHandler) AddAllocation(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.AddAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	alloc, err := h.service.AddAllocation(c.Request.Context(), id, req.BranchCode, req.CostCenterCode, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToAllocationResponse(alloc))
}

// SetAllocationValue edits the value side of one allocation row
func (h *DraftHandler) SetAllocationValue(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	allocationID, err := rowID(c, "allocationId")
	if err != nil {
		h.BadRequest(c, "Invalid allocation id")
		return
	}

	var req dto.SetAllocationValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amounts, err := h.service.SetAllocationValue(id, allocationID, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AllocationAmountsResponse{Value: amounts.Value, Percentage: amounts.Percentage})
}

// SetAllocationPercentage edits the percentage side of one allocation row
func (h *DraftHandler) SetAllocationPercentage(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	allocationID, err := rowID(c, "allocationId")
	if err != nil {
		h.BadRequest(c, "Invalid allocation id")
		return
	}

	var req dto.SetAllocationPercentageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amounts, err := h.service.SetAllocationPercentage(id, allocationID, req.Percentage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AllocationAmountsResponse{Value: amounts.Value, Percentage: amounts.Percentage})
}

// RemoveAllocation deletes an allocation row
func (h *DraftHandler) RemoveAllocation(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}
	allocationID, err := rowID(c, "allocationId")
	if err != nil {
		h.BadRequest(c, "Invalid allocation id")
		return
	}

	if err := h.service.RemoveAllocation(id, allocationID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.draftState(c, id)
}

// SaveAttachments applies the working attachment list and returns the diff
func (h *DraftHandler) SaveAttachments(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	var req dto.SaveAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	working := make([]preinvoice.AttachmentMeta, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		meta, err := preinvoice.NewAttachmentMeta(a.Sequence, a.Filename, a.Description)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		working = append(working, meta)
	}

	diff, err := h.service.SaveAttachments(id, working)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToAttachmentDiffResponse(diff))
}

// Validation returns the consistency verdict of the draft
func (h *DraftHandler) Validation(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	result, err := h.service.Validate(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToValidationResponse(result))
}

// Submit hands the draft to the submission endpoint
func (h *DraftHandler) Submit(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		h.BadRequest(c, "Invalid session id")
		return
	}

	receipt, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SubmissionResponse{DocumentID: receipt.DocumentID})
}

// SearchSuppliers proxies the supplier lookup
func (h *DraftHandler) SearchSuppliers(c *gin.Context) {
	records, err := h.service.SearchSuppliers(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.SupplierResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.SupplierResponse{
			Code:  r.Code,
			Store: r.Store,
			Name:  r.Name,
			TaxID: r.TaxID,
		})
	}
	h.Success(c, resp)
}

// SearchProducts proxies the product lookup
func (h *DraftHandler) SearchProducts(c *gin.Context) {
	records, err := h.service.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.ProductResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.ProductResponse{
			Code:        r.Code,
			Description: r.Description,
			Unit:        r.Unit,
		})
	}
	h.Success(c, resp)
}

// draftState answers a mutation with the refreshed draft so editing surfaces
// can rerender all three views at once
func (h *DraftHandler) draftState(c *gin.Context, id uuid.UUID) {
	draft, err := h.service.GetDraft(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToDraftResponse(draft))
}
