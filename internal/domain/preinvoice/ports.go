package preinvoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SupplierRecord is one supplier candidate returned by a lookup
type SupplierRecord struct {
	Code  string
	Store string
	Name  string
	TaxID string
}

// ProductRecord is one product candidate returned by a lookup
type ProductRecord struct {
	Code        string
	Description string
	Unit        string
}

// PurchaseOrderRecord is one purchase order returned by a lookup, with its
// lines ready for reconciliation
type PurchaseOrderRecord struct {
	Number       string
	SupplierCode string
	IssueDate    time.Time
	Lines        []OrderLine
}

// ImportedItem is one line of an imported electronic invoice, before it is
// turned into a draft item
type ImportedItem struct {
	Sequence            string
	SupplierProductCode string
	SupplierDescription string
	Unit                string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
}

// ImportedInvoice is the payload of a successful electronic invoice import:
// a header patch plus the item list
type ImportedInvoice struct {
	Header Header
	Items  []ImportedItem
}

// InvoiceKey identifies one electronic invoice at the import service
type InvoiceKey struct {
	AccessKey string
}

// SubmissionReceipt is returned by the submission endpoint on success.
// AllocationOriginIDs echoes the backend record ids per allocation sequence.
type SubmissionReceipt struct {
	DocumentID          string
	AllocationOriginIDs map[int]int64
}

// SupplierLookup searches suppliers by term
type SupplierLookup interface {
	SearchSuppliers(ctx context.Context, term string) ([]SupplierRecord, error)
}

// ProductLookup searches products by term
type ProductLookup interface {
	SearchProducts(ctx context.Context, term string) ([]ProductRecord, error)
}

// PurchaseOrderLookup finds a purchase order with its lines
type PurchaseOrderLookup interface {
	FindOrder(ctx context.Context, supplierCode, orderNumber string) (*PurchaseOrderRecord, error)
}

// InvoiceImporter fetches an electronic invoice by key
type InvoiceImporter interface {
	Import(ctx context.Context, key InvoiceKey) (*ImportedInvoice, error)
}

// PaymentConditionLookup produces an installment schedule for a condition
// code, a base date and the document total. Schedules are seeded into the
// draft and only validated by the engine, never computed by it.
type PaymentConditionLookup interface {
	Schedule(ctx context.Context, conditionCode string, baseDate time.Time, total decimal.Decimal) ([]*Installment, error)
}

// CatalogLookup validates that allocation row identifiers exist in the
// branch / cost-center reference data. Lookup only, no ownership.
type CatalogLookup interface {
	BranchExists(ctx context.Context, code string) (bool, error)
	CostCenterExists(ctx context.Context, code string) (bool, error)
}

// SubmissionEndpoint receives the committed draft once the validator
// reports no violations
type SubmissionEndpoint interface {
	Submit(ctx context.Context, draft *Draft) (*SubmissionReceipt, error)
}

// FetchErrorKind tags the failure class of an external fetch
type FetchErrorKind string

const (
	// FetchErrorNetwork means the remote service was unreachable or timed out
	FetchErrorNetwork FetchErrorKind = "network"
	// FetchErrorLogical means the remote service answered with a business
	// failure (not found, rejected key, ...)
	FetchErrorLogical FetchErrorKind = "logical"
	// FetchErrorParse means the remote payload could not be decoded
	FetchErrorParse FetchErrorKind = "parse"
)

// FetchError is a tagged external-fetch failure. A failed fetch yields no
// candidate records and leaves the draft untouched; the tag lets the
// calling surface choose how to present the failure.
type FetchError struct {
	Kind    FetchErrorKind
	Service string
	Err     error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed (%s): %v", e.Service, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a tagged fetch error
func NewFetchError(kind FetchErrorKind, service string, err error) *FetchError {
	return &FetchError{Kind: kind, Service: service, Err: err}
}
