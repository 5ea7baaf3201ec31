package preinvoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item represents one purchased line of the draft. It can originate from an
// imported electronic invoice, from manual entry, or from both after a merge
// with a purchase order line.
type Item struct {
	ID       uuid.UUID
	Sequence string // unique within the draft

	// Supplier-side fields, owned by the import source. Never overwritten
	// by reconciliation.
	SupplierProductCode string
	SupplierDescription string
	SupplierUnit        string

	// Internal fields, populated when the item is linked to a purchase
	// order line.
	ProductCode string
	Unit        string

	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal // Quantity * UnitPrice rounded to 2 places

	OrderNumber   string // purchase order number, empty until linked
	OrderItemCode string // purchase order line reference, empty until linked
	Linked        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem creates a new draft item
func NewItem(sequence, supplierProductCode, supplierDescription, supplierUnit string, quantity, unitPrice decimal.Decimal) (*Item, error) {
	if strings.TrimSpace(sequence) == "" {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Item sequence cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := &Item{
		ID:                  uuid.New(),
		Sequence:            strings.TrimSpace(sequence),
		SupplierProductCode: strings.TrimSpace(supplierProductCode),
		SupplierDescription: strings.TrimSpace(supplierDescription),
		SupplierUnit:        strings.TrimSpace(supplierUnit),
		Quantity:            quantity,
		UnitPrice:           unitPrice,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	item.recalculate()
	return item, nil
}

// UpdateQuantity updates the item quantity and recomputes the total
func (i *Item) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.recalculate()
	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the total
func (i *Item) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.recalculate()
	return nil
}

// recalculate keeps Total == round(Quantity * UnitPrice, 2)
func (i *Item) recalculate() {
	i.Total = i.Quantity.Mul(i.UnitPrice).Round(2)
	i.UpdatedAt = time.Now()
}

// EffectiveUnit returns the unit of measure used for display: the internal
// unit once linked, the supplier-declared unit otherwise.
func (i *Item) EffectiveUnit() string {
	if i.Unit != "" {
		return i.Unit
	}
	return i.SupplierUnit
}

// EffectiveProductCode returns the internal product code once linked, the
// supplier-declared code otherwise.
func (i *Item) EffectiveProductCode() string {
	if i.ProductCode != "" {
		return i.ProductCode
	}
	return i.SupplierProductCode
}

// ResolveTotal derives the authoritative document total from the item list.
// Each per-item total is already stored rounded to 2 decimal places, so the
// sum is free of floating-point drift. Pure function, no side effects.
func ResolveTotal(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total.Round(2))
	}
	return total
}
