package erp

import (
	"context"
	"net/url"
	"time"

	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/shopspring/decimal"
)

// invoicePayload mirrors the electronic invoice response of the import service
type invoicePayload struct {
	DocumentNumber string               `json:"document_number"`
	Series         string               `json:"series"`
	EmissionDate   time.Time            `json:"emission_date"`
	SupplierCode   string               `json:"supplier_code"`
	SupplierName   string               `json:"supplier_name"`
	BranchCode     string               `json:"branch_code"`
	Items          []invoiceItemPayload `json:"items"`
}

type invoiceItemPayload struct {
	Sequence    string          `json:"sequence"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceAdapter implements preinvoice.InvoiceImporter against the
// electronic invoice service
type InvoiceAdapter struct {
	client *Client
}

// NewInvoiceAdapter creates an invoice adapter over the shared client
func NewInvoiceAdapter(client *Client) *InvoiceAdapter {
	return &InvoiceAdapter{client: client}
}

// Import fetches the electronic invoice identified by the access key.
// Item fields keep the supplier's own codes and descriptions; linking them
// to internal products happens later during reconciliation.
func (a *InvoiceAdapter) Import(ctx context.Context, key preinvoice.InvoiceKey) (*preinvoice.ImportedInvoice, error) {
	query := url.Values{"access_key": {key.AccessKey}}
	var payload invoicePayload
	if err := a.client.getJSON(ctx, "invoice-import", "/api/v1/invoices", query, &payload); err != nil {
		return nil, err
	}

	items := make([]preinvoice.ImportedItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, preinvoice.ImportedItem{
			Sequence:            item.Sequence,
			SupplierProductCode: item.ProductCode,
			SupplierDescription: item.Description,
			Unit:                item.Unit,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
		})
	}

	return &preinvoice.ImportedInvoice{
		Header: preinvoice.Header{
			DocumentNumber: payload.DocumentNumber,
			Series:         payload.Series,
			EmissionDate:   payload.EmissionDate,
			SupplierCode:   payload.SupplierCode,
			SupplierName:   payload.SupplierName,
			BranchCode:     payload.BranchCode,
		},
		Items: items,
	}, nil
}

// Ensure InvoiceAdapter implements InvoiceImporter
var _ preinvoice.InvoiceImporter = (*InvoiceAdapter)(nil)
