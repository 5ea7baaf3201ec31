package preinvoice

import (
	"strings"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLine is one purchase order line candidate for reconciliation.
// It is an immutable input produced by the purchase-order lookup.
type OrderLine struct {
	OrderNumber string
	LineCode    string
	ProductCode string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Unit        string
}

// MergeStatus is the outcome of one merge proposal
type MergeStatus string

const (
	// MergeStatusCommitted means the purchase order fields were overlaid
	// onto the imported item immediately.
	MergeStatusCommitted MergeStatus = "committed"
	// MergeStatusPending means the units of measure diverge and the merge
	// waits for an explicit quantity confirmation.
	MergeStatusPending MergeStatus = "pending"
)

// MergeProposal is the result of matching one imported item against one
// purchase order line. Pending proposals expose both candidate quantities
// and units so a human can decide.
type MergeProposal struct {
	ItemID           uuid.UUID       `json:"item_id"`
	Line             OrderLine       `json:"-"`
	Status           MergeStatus     `json:"status"`
	ImportedQuantity decimal.Decimal `json:"imported_quantity"`
	ImportedUnit     string          `json:"imported_unit"`
	OrderQuantity    decimal.Decimal `json:"order_quantity"`
	OrderUnit        string          `json:"order_unit"`
}

// ReconcileResult summarizes one reconciliation pass over the draft items
type ReconcileResult struct {
	Committed      []*MergeProposal
	Pending        []*MergeProposal
	UnmatchedItems []uuid.UUID // imported items without a matching order line
	UnmatchedLines []OrderLine // order lines left for manual linking
}

// unitsMatch compares two units of measure, case-insensitive and trimmed
func unitsMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ReconcileOrder merges the draft items with the lines of a selected
// purchase order. Lines are matched to items by exact line/sequence code.
// When the units of measure agree the purchase order fields are overlaid
// immediately; when they diverge the proposal is parked as pending and the
// item keeps its imported-only state until ConfirmMerge supplies the final
// quantity. Unmatched items stay unlinked; unmatched lines are reported
// back for manual linking.
func (d *Draft) ReconcileOrder(lines []OrderLine) ReconcileResult {
	result := ReconcileResult{}

	byLineCode := make(map[string]OrderLine, len(lines))
	for _, line := range lines {
		byLineCode[strings.TrimSpace(line.LineCode)] = line
	}
	matched := make(map[string]bool, len(lines))

	for _, item := range d.items {
		line, ok := byLineCode[item.Sequence]
		if !ok {
			result.UnmatchedItems = append(result.UnmatchedItems, item.ID)
			continue
		}
		matched[strings.TrimSpace(line.LineCode)] = true

		proposal := d.propose(item, line)
		if proposal.Status == MergeStatusCommitted {
			result.Committed = append(result.Committed, proposal)
		} else {
			result.Pending = append(result.Pending, proposal)
		}
	}

	for _, line := range lines {
		if !matched[strings.TrimSpace(line.LineCode)] {
			result.UnmatchedLines = append(result.UnmatchedLines, line)
		}
	}

	d.revalidate()
	return result
}

// LinkItem manually links one draft item to a purchase order line chosen by
// the user. The unit-divergence rule is identical to the automatic pass.
func (d *Draft) LinkItem(itemID uuid.UUID, line OrderLine) (*MergeProposal, error) {
	item, err := d.item(itemID)
	if err != nil {
		return nil, err
	}
	proposal := d.propose(item, line)
	d.revalidate()
	return proposal, nil
}

// ConfirmMerge commits a pending merge with the explicitly chosen quantity.
// Purchase order fields are overlaid with the confirmed quantity in place
// of the order-declared one.
func (d *Draft) ConfirmMerge(itemID uuid.UUID, finalQuantity decimal.Decimal) error {
	proposal, ok := d.pendingMerges[itemID]
	if !ok {
		return shared.NewDomainError("NO_PENDING_MERGE", "Item has no pending merge to confirm")
	}
	if finalQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Confirmed quantity must be positive")
	}

	item, err := d.item(itemID)
	if err != nil {
		return err
	}

	d.commitMerge(item, proposal.Line, finalQuantity)
	delete(d.pendingMerges, itemID)
	d.revalidate()
	return nil
}

// RejectMerge discards a pending merge, leaving the item unlinked
func (d *Draft) RejectMerge(itemID uuid.UUID) error {
	if _, ok := d.pendingMerges[itemID]; !ok {
		return shared.NewDomainError("NO_PENDING_MERGE", "Item has no pending merge to reject")
	}
	delete(d.pendingMerges, itemID)
	return nil
}

// PendingMerges returns the proposals awaiting confirmation
func (d *Draft) PendingMerges() []*MergeProposal {
	proposals := make([]*MergeProposal, 0, len(d.pendingMerges))
	for _, p := range d.pendingMerges {
		proposals = append(proposals, p)
	}
	return proposals
}

// propose evaluates one item/line pair. Matching units commit immediately;
// diverging units park a pending proposal without touching the item.
func (d *Draft) propose(item *Item, line OrderLine) *MergeProposal {
	proposal := &MergeProposal{
		ItemID:           item.ID,
		Line:             line,
		ImportedQuantity: item.Quantity,
		ImportedUnit:     item.SupplierUnit,
		OrderQuantity:    line.Quantity,
		OrderUnit:        line.Unit,
	}

	if unitsMatch(item.SupplierUnit, line.Unit) {
		d.commitMerge(item, line, line.Quantity)
		delete(d.pendingMerges, item.ID)
		proposal.Status = MergeStatusCommitted
		return proposal
	}

	proposal.Status = MergeStatusPending
	d.pendingMerges[item.ID] = proposal
	return proposal
}

// commitMerge overlays the purchase-order-sourced fields onto the item.
// Supplier product code, description and sequence stay untouched.
func (d *Draft) commitMerge(item *Item, line OrderLine, quantity decimal.Decimal) {
	item.ProductCode = strings.TrimSpace(line.ProductCode)
	item.Quantity = quantity
	item.UnitPrice = line.UnitPrice
	item.Unit = strings.TrimSpace(line.Unit)
	item.OrderNumber = strings.TrimSpace(line.OrderNumber)
	item.OrderItemCode = strings.TrimSpace(line.LineCode)
	item.Linked = true
	item.recalculate()
	d.invalidateTotal()
}
