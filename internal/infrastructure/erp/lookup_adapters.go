package erp

import (
	"context"
	"net/url"
	"time"

	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/shopspring/decimal"
)

// supplierPayload mirrors the supplier search response of the ERP
type supplierPayload struct {
	Code  string `json:"code"`
	Store string `json:"store"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// productPayload mirrors the product search response of the ERP
type productPayload struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// orderPayload mirrors the purchase order response of the ERP
type orderPayload struct {
	Number       string             `json:"number"`
	SupplierCode string             `json:"supplier_code"`
	IssueDate    time.Time          `json:"issue_date"`
	Lines        []orderLinePayload `json:"lines"`
}

type orderLinePayload struct {
	LineCode    string          `json:"line_code"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
}

// LookupAdapter implements the supplier, product and purchase-order lookups
// against the ERP master-data API
type LookupAdapter struct {
	client *Client
}

// NewLookupAdapter creates a lookup adapter over the shared client
func NewLookupAdapter(client *Client) *LookupAdapter {
	return &LookupAdapter{client: client}
}

// SearchSuppliers implements preinvoice.SupplierLookup
func (a *LookupAdapter) SearchSuppliers(ctx context.Context, term string) ([]preinvoice.SupplierRecord, error) {
	query := url.Values{"q": {term}}
	var payload []supplierPayload
	if err := a.client.getJSON(ctx, "supplier-lookup", "/api/v1/suppliers", query, &payload); err != nil {
		return nil, err
	}

	records := make([]preinvoice.SupplierRecord, 0, len(payload))
	for _, p := range payload {
		records = append(records, preinvoice.SupplierRecord{
			Code:  p.Code,
			Store: p.Store,
			Name:  p.Name,
			TaxID: p.TaxID,
		})
	}
	return records, nil
}

// SearchProducts implements preinvoice.ProductLookup
func (a *LookupAdapter) SearchProducts(ctx context.Context, term string) ([]preinvoice.ProductRecord, error) {
	query := url.Values{"q": {term}}
	var payload []productPayload
	if err := a.client.getJSON(ctx, "product-lookup", "/api/v1/products", query, &payload); err != nil {
		return nil, err
	}

	records := make([]preinvoice.ProductRecord, 0, len(payload))
	for _, p := range payload {
		records = append(records, preinvoice.ProductRecord{
			Code:        p.Code,
			Description: p.Description,
			Unit:        p.Unit,
		})
	}
	return records, nil
}

// FindOrder implements preinvoice.PurchaseOrderLookup
func (a *LookupAdapter) FindOrder(ctx context.Context, supplierCode, orderNumber string) (*preinvoice.PurchaseOrderRecord, error) {
	query := url.Values{
		"supplier": {supplierCode},
		"number":   {orderNumber},
	}
	var payload orderPayload
	if err := a.client.getJSON(ctx, "purchase-order-lookup", "/api/v1/purchase-orders", query, &payload); err != nil {
		return nil, err
	}

	lines := make([]preinvoice.OrderLine, 0, len(payload.Lines))
	for _, l := range payload.Lines {
		lines = append(lines, preinvoice.OrderLine{
			OrderNumber: payload.Number,
			LineCode:    l.LineCode,
			ProductCode: l.ProductCode,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Unit:        l.Unit,
		})
	}

	return &preinvoice.PurchaseOrderRecord{
		Number:       payload.Number,
		SupplierCode: payload.SupplierCode,
		IssueDate:    payload.IssueDate,
		Lines:        lines,
	}, nil
}

// Ensure LookupAdapter implements the lookup ports
var (
	_ preinvoice.SupplierLookup      = (*LookupAdapter)(nil)
	_ preinvoice.ProductLookup       = (*LookupAdapter)(nil)
	_ preinvoice.PurchaseOrderLookup = (*LookupAdapter)(nil)
)
