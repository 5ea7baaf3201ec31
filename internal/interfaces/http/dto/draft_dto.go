package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/shopspring/decimal"
)

// UpdateHeaderRequest carries the editable header fields
type UpdateHeaderRequest struct {
	DocumentNumber       string    `json:"document_number"`
	Series               string    `json:"series"`
	EmissionDate         time.Time `json:"emission_date"`
	SupplierCode         string    `json:"supplier_code"`
	SupplierName         string    `json:"supplier_name"`
	BranchCode           string    `json:"branch_code"`
	PaymentConditionCode string    `json:"payment_condition_code"`
	Remark               string    `json:"remark"`
}

// ImportInvoiceRequest identifies the electronic invoice to import
type ImportInvoiceRequest struct {
	AccessKey string `json:"access_key" binding:"required"`
}

// AddItemRequest carries a manually entered item
type AddItemRequest struct {
	Sequence            string          `json:"sequence" binding:"required"`
	SupplierProductCode string          `json:"supplier_product_code"`
	SupplierDescription string          `json:"supplier_description"`
	Unit                string          `json:"unit"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice           decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateQuantityRequest changes one item quantity
type UpdateQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateUnitPriceRequest changes one item unit price
type UpdateUnitPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ReconcileRequest identifies the purchase order to reconcile against
type ReconcileRequest struct {
	SupplierCode string `json:"supplier_code" binding:"required"`
	OrderNumber  string `json:"order_number" binding:"required"`
}

// LinkItemRequest carries the purchase order line to link manually
type LinkItemRequest struct {
	OrderNumber string          `json:"order_number" binding:"required"`
	LineCode    string          `json:"line_code" binding:"required"`
	ProductCode string          `json:"product_code" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Unit        string          `json:"unit" binding:"required"`
}

// ToOrderLine converts the request to a domain order line
func (r LinkItemRequest) ToOrderLine() preinvoice.OrderLine {
	return preinvoice.OrderLine{
		OrderNumber: r.OrderNumber,
		LineCode:    r.LineCode,
		ProductCode: r.ProductCode,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Unit:        r.Unit,
	}
}

// ConfirmMergeRequest carries the final quantity for a pending merge
type ConfirmMergeRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// SeedInstallmentsRequest identifies the payment condition for the schedule
type SeedInstallmentsRequest struct {
	ConditionCode string    `json:"condition_code" binding:"required"`
	BaseDate      time.Time `json:"base_date" binding:"required"`
}

// AddAllocationRequest carries a new allocation row
type AddAllocationRequest struct {
	BranchCode     string          `json:"branch_code" binding:"required"`
	CostCenterCode string          `json:"cost_center_code" binding:"required"`
	Value          decimal.Decimal `json:"value" binding:"required"`
}

// SetAllocationValueRequest edits the value side of an allocation row
type SetAllocationValueRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
}

// SetAllocationPercentageRequest edits the percentage side of an allocation row
type SetAllocationPercentageRequest struct {
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

// AttachmentRequest is one attachment row of the working set
type AttachmentRequest struct {
	Sequence    int    `json:"sequence" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	Description string `json:"description"`
}

// SaveAttachmentsRequest replaces the attachment list in one step
type SaveAttachmentsRequest struct {
	Attachments []AttachmentRequest `json:"attachments"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// SessionResponse is returned when an editing session opens
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Draft     DraftResponse `json:"draft"`
}

// DraftResponse is the full draft state
type DraftResponse struct {
	Mode          string                `json:"mode"`
	Header        HeaderResponse        `json:"header"`
	Items         []ItemResponse        `json:"items"`
	Installments  []InstallmentResponse `json:"installments"`
	Allocations   []AllocationResponse  `json:"allocations"`
	Attachments   []AttachmentResponse  `json:"attachments"`
	DocumentTotal decimal.Decimal       `json:"document_total"`
	Validation    ValidationResponse    `json:"validation"`
}

// HeaderResponse mirrors the draft header
type HeaderResponse struct {
	DocumentNumber       string    `json:"document_number"`
	Series               string    `json:"series"`
	EmissionDate         time.Time `json:"emission_date"`
	SupplierCode         string    `json:"supplier_code"`
	SupplierName         string    `json:"supplier_name"`
	BranchCode           string    `json:"branch_code"`
	PaymentConditionCode string    `json:"payment_condition_code"`
	Remark               string    `json:"remark"`
}

// ItemResponse is one draft item
type ItemResponse struct {
	ID                  string          `json:"id"`
	Sequence            string          `json:"sequence"`
	SupplierProductCode string          `json:"supplier_product_code"`
	SupplierDescription string          `json:"supplier_description"`
	SupplierUnit        string          `json:"supplier_unit"`
	ProductCode         string          `json:"product_code"`
	Unit                string          `json:"unit"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Total               decimal.Decimal `json:"total"`
	OrderNumber         string          `json:"order_number,omitempty"`
	OrderItemCode       string          `json:"order_item_code,omitempty"`
	Linked              bool            `json:"linked"`
}

// InstallmentResponse is one installment row
type InstallmentResponse struct {
	ID      string          `json:"id"`
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Value   decimal.Decimal `json:"value"`
}

// AllocationResponse is one allocation row
type AllocationResponse struct {
	ID             string          `json:"id"`
	Sequence       int             `json:"sequence"`
	BranchCode     string          `json:"branch_code"`
	CostCenterCode string          `json:"cost_center_code"`
	Percentage     decimal.Decimal `json:"percentage"`
	Value          decimal.Decimal `json:"value"`
	OriginID       int64           `json:"origin_id,omitempty"`
}

// AllocationAmountsResponse echoes the clamped value/percentage pair after
// an allocation edit
type AllocationAmountsResponse struct {
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// AttachmentResponse is one attachment metadata row
type AttachmentResponse struct {
	ID          string `json:"id"`
	Sequence    int    `json:"sequence"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// AttachmentDiffResponse is the staged diff applied on save
type AttachmentDiffResponse struct {
	Added   []AttachmentResponse `json:"added"`
	Removed []AttachmentResponse `json:"removed"`
	Updated []AttachmentResponse `json:"updated"`
}

// ValidationResponse is the consistency verdict of the draft
type ValidationResponse struct {
	Valid      bool                `json:"valid"`
	Violations []ViolationResponse `json:"violations"`
}

// ViolationResponse is one consistency violation
type ViolationResponse struct {
	Group   string `json:"group"`
	RowID   string `json:"row_id,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MergeProposalResponse is one reconciliation proposal
type MergeProposalResponse struct {
	ItemID           string          `json:"item_id"`
	Status           string          `json:"status"`
	OrderNumber      string          `json:"order_number"`
	LineCode         string          `json:"line_code"`
	ProductCode      string          `json:"product_code"`
	ImportedQuantity decimal.Decimal `json:"imported_quantity"`
	ImportedUnit     string          `json:"imported_unit"`
	OrderQuantity    decimal.Decimal `json:"order_quantity"`
	OrderUnit        string          `json:"order_unit"`
}

// ReconcileResponse is the outcome of a purchase order reconciliation.
// Unmatched items are echoed by row id, unmatched order lines by line code;
// both sides stay available for manual linking.
type ReconcileResponse struct {
	Committed      []MergeProposalResponse `json:"committed"`
	Pending        []MergeProposalResponse `json:"pending"`
	UnmatchedItems []string                `json:"unmatched_items"`
	UnmatchedLines []string                `json:"unmatched_lines"`
}

// SubmissionResponse is the receipt of a successful submission
type SubmissionResponse struct {
	DocumentID string `json:"document_id"`
}

// SupplierResponse is one supplier lookup candidate
type SupplierResponse struct {
	Code  string `json:"code"`
	Store string `json:"store"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// ProductResponse is one product lookup candidate
type ProductResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

// ToDraftResponse maps a domain draft to its response form
func ToDraftResponse(draft *preinvoice.Draft) DraftResponse {
	header := draft.Header()
	resp := DraftResponse{
		Mode: string(draft.Mode()),
		Header: HeaderResponse{
			DocumentNumber:       header.DocumentNumber,
			Series:               header.Series,
			EmissionDate:         header.EmissionDate,
			SupplierCode:         header.SupplierCode,
			SupplierName:         header.SupplierName,
			BranchCode:           header.BranchCode,
			PaymentConditionCode: header.PaymentConditionCode,
			Remark:               header.Remark,
		},
		Items:         make([]ItemResponse, 0),
		Installments:  make([]InstallmentResponse, 0),
		Allocations:   make([]AllocationResponse, 0),
		Attachments:   make([]AttachmentResponse, 0),
		DocumentTotal: draft.DocumentTotal(),
		Validation:    ToValidationResponse(draft.LastValidation()),
	}

	for _, item := range draft.Items() {
		resp.Items = append(resp.Items, ToItemResponse(item))
	}
	for _, installment := range draft.Installments() {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			ID:      installment.ID.String(),
			Number:  installment.Number,
			DueDate: installment.DueDate,
			Value:   installment.Value,
		})
	}
	for _, alloc := range draft.Allocations() {
		resp.Allocations = append(resp.Allocations, ToAllocationResponse(alloc))
	}
	for _, attachment := range draft.Attachments() {
		resp.Attachments = append(resp.Attachments, ToAttachmentResponse(attachment))
	}

	return resp
}

// ToItemResponse maps a domain item to its response form
func ToItemResponse(item *preinvoice.Item) ItemResponse {
	return ItemResponse{
		ID:                  item.ID.String(),
		Sequence:            item.Sequence,
		SupplierProductCode: item.SupplierProductCode,
		SupplierDescription: item.SupplierDescription,
		SupplierUnit:        item.SupplierUnit,
		ProductCode:         item.ProductCode,
		Unit:                item.Unit,
		Quantity:            item.Quantity,
		UnitPrice:           item.UnitPrice,
		Total:               item.Total,
		OrderNumber:         item.OrderNumber,
		OrderItemCode:       item.OrderItemCode,
		Linked:              item.Linked,
	}
}

// ToAllocationResponse maps a domain allocation to its response form
func ToAllocationResponse(alloc *preinvoice.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:             alloc.ID.String(),
		Sequence:       alloc.Sequence,
		BranchCode:     alloc.BranchCode,
		CostCenterCode: alloc.CostCenterCode,
		Percentage:     alloc.Percentage,
		Value:          alloc.Value,
		OriginID:       alloc.OriginID,
	}
}

// ToAttachmentResponse maps attachment metadata to its response form
func ToAttachmentResponse(meta preinvoice.AttachmentMeta) AttachmentResponse {
	return AttachmentResponse{
		ID:          meta.ID.String(),
		Sequence:    meta.Sequence,
		Filename:    meta.Filename,
		Description: meta.Description,
	}
}

// ToAttachmentDiffResponse maps a staged diff to its response form
func ToAttachmentDiffResponse(diff preinvoice.AttachmentDiff) AttachmentDiffResponse {
	resp := AttachmentDiffResponse{
		Added:   make([]AttachmentResponse, 0, len(diff.Added)),
		Removed: make([]AttachmentResponse, 0, len(diff.Removed)),
		Updated: make([]AttachmentResponse, 0, len(diff.Updated)),
	}
	for _, meta := range diff.Added {
		resp.Added = append(resp.Added, ToAttachmentResponse(meta))
	}
	for _, meta := range diff.Removed {
		resp.Removed = append(resp.Removed, ToAttachmentResponse(meta))
	}
	for _, meta := range diff.Updated {
		resp.Updated = append(resp.Updated, ToAttachmentResponse(meta))
	}
	return resp
}

// ToValidationResponse maps a validation result to its response form
func ToValidationResponse(result preinvoice.ValidationResult) ValidationResponse {
	resp := ValidationResponse{
		Valid:      result.Valid,
		Violations: make([]ViolationResponse, 0, len(result.Violations)),
	}
	for _, v := range result.Violations {
		rowID := ""
		if v.RowID != uuid.Nil {
			rowID = v.RowID.String()
		}
		resp.Violations = append(resp.Violations, ViolationResponse{
			Group:   string(v.Group),
			RowID:   rowID,
			Field:   v.Field,
			Code:    v.Code,
			Message: v.Message,
		})
	}
	return resp
}

// ToMergeProposalResponse maps a merge proposal to its response form
func ToMergeProposalResponse(p *preinvoice.MergeProposal) MergeProposalResponse {
	return MergeProposalResponse{
		ItemID:           p.ItemID.String(),
		Status:           string(p.Status),
		OrderNumber:      p.Line.OrderNumber,
		LineCode:         p.Line.LineCode,
		ProductCode:      p.Line.ProductCode,
		ImportedQuantity: p.ImportedQuantity,
		ImportedUnit:     p.ImportedUnit,
		OrderQuantity:    p.OrderQuantity,
		OrderUnit:        p.OrderUnit,
	}
}

// ToReconcileResponse maps a reconciliation outcome to its response form
func ToReconcileResponse(result *preinvoice.ReconcileResult) ReconcileResponse {
	resp := ReconcileResponse{
		Committed:      make([]MergeProposalResponse, 0, len(result.Committed)),
		Pending:        make([]MergeProposalResponse, 0, len(result.Pending)),
		UnmatchedItems: make([]string, 0, len(result.UnmatchedItems)),
		UnmatchedLines: make([]string, 0, len(result.UnmatchedLines)),
	}
	for _, p := range result.Committed {
		resp.Committed = append(resp.Committed, ToMergeProposalResponse(p))
	}
	for _, p := range result.Pending {
		resp.Pending = append(resp.Pending, ToMergeProposalResponse(p))
	}
	for _, itemID := range result.UnmatchedItems {
		resp.UnmatchedItems = append(resp.UnmatchedItems, itemID.String())
	}
	for _, line := range result.UnmatchedLines {
		resp.UnmatchedLines = append(resp.UnmatchedLines, line.LineCode)
	}
	return resp
}
