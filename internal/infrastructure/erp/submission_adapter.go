package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/preinvoice/backend/internal/domain/preinvoice"
)

// submissionRequest is the JSON body posted to the ERP on submission
type submissionRequest struct {
	Header       submissionHeader        `json:"header"`
	Items        []submissionItem        `json:"items"`
	Installments []submissionInstallment `json:"installments"`
	Allocations  []submissionAllocation  `json:"allocations"`
	Attachments  []submissionAttachment  `json:"attachments"`
}

type submissionHeader struct {
	DocumentNumber       string    `json:"document_number"`
	Series               string    `json:"series"`
	EmissionDate         time.Time `json:"emission_date"`
	SupplierCode         string    `json:"supplier_code"`
	BranchCode           string    `json:"branch_code"`
	PaymentConditionCode string    `json:"payment_condition_code"`
	Remark               string    `json:"remark"`
}

type submissionItem struct {
	Sequence    string `json:"sequence"`
	ProductCode string `json:"product_code"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
	OrderNumber string `json:"order_number,omitempty"`
	OrderItem   string `json:"order_item,omitempty"`
}

type submissionInstallment struct {
	Number  int       `json:"number"`
	DueDate time.Time `json:"due_date"`
	Value   string    `json:"value"`
}

type submissionAllocation struct {
	Sequence       int    `json:"sequence"`
	BranchCode     string `json:"branch_code"`
	CostCenterCode string `json:"cost_center_code"`
	Percentage     string `json:"percentage"`
	Value          string `json:"value"`
}

type submissionAttachment struct {
	Sequence    int    `json:"sequence"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// submissionResponse is the receipt echoed by the ERP
type submissionResponse struct {
	DocumentID  string                    `json:"document_id"`
	Allocations []submissionAllocationRef `json:"allocations"`
}

type submissionAllocationRef struct {
	Sequence int   `json:"sequence"`
	OriginID int64 `json:"origin_id"`
}

// SubmissionAdapter implements preinvoice.SubmissionEndpoint against the ERP
// document intake API
type SubmissionAdapter struct {
	client *Client
}

// NewSubmissionAdapter creates a submission adapter over the shared client
func NewSubmissionAdapter(client *Client) *SubmissionAdapter {
	return &SubmissionAdapter{client: client}
}

// Submit posts the draft content and returns the receipt with the backend
// record ids per allocation sequence
func (a *SubmissionAdapter) Submit(ctx context.Context, draft *preinvoice.Draft) (*preinvoice.SubmissionReceipt, error) {
	body, err := json.Marshal(buildRequest(draft))
	if err != nil {
		return nil, preinvoice.NewFetchError(preinvoice.FetchErrorParse, "submission", err)
	}

	var resp submissionResponse
	if err := a.client.postJSON(ctx, "submission", "/api/v1/pre-invoices", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	originIDs := make(map[int]int64, len(resp.Allocations))
	for _, ref := range resp.Allocations {
		originIDs[ref.Sequence] = ref.OriginID
	}

	return &preinvoice.SubmissionReceipt{
		DocumentID:          resp.DocumentID,
		AllocationOriginIDs: originIDs,
	}, nil
}

func buildRequest(draft *preinvoice.Draft) submissionRequest {
	header := draft.Header()
	req := submissionRequest{
		Header: submissionHeader{
			DocumentNumber:       header.DocumentNumber,
			Series:               header.Series,
			EmissionDate:         header.EmissionDate,
			SupplierCode:         header.SupplierCode,
			BranchCode:           header.BranchCode,
			PaymentConditionCode: header.PaymentConditionCode,
			Remark:               header.Remark,
		},
	}

	for _, item := range draft.Items() {
		req.Items = append(req.Items, submissionItem{
			Sequence:    item.Sequence,
			ProductCode: item.EffectiveProductCode(),
			Unit:        item.EffectiveUnit(),
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.String(),
			Total:       item.Total.StringFixed(2),
			OrderNumber: item.OrderNumber,
			OrderItem:   item.OrderItemCode,
		})
	}
	for _, installment := range draft.Installments() {
		req.Installments = append(req.Installments, submissionInstallment{
			Number:  installment.Number,
			DueDate: installment.DueDate,
			Value:   installment.Value.StringFixed(2),
		})
	}
	for _, alloc := range draft.Allocations() {
		req.Allocations = append(req.Allocations, submissionAllocation{
			Sequence:       alloc.Sequence,
			BranchCode:     alloc.BranchCode,
			CostCenterCode: alloc.CostCenterCode,
			Percentage:     alloc.Percentage.StringFixed(2),
			Value:          alloc.Value.StringFixed(2),
		})
	}
	for _, attachment := range draft.Attachments() {
		req.Attachments = append(req.Attachments, submissionAttachment{
			Sequence:    attachment.Sequence,
			Filename:    attachment.Filename,
			Description: attachment.Description,
		})
	}

	return req
}

// Ensure SubmissionAdapter implements SubmissionEndpoint
var _ preinvoice.SubmissionEndpoint = (*SubmissionAdapter)(nil)
