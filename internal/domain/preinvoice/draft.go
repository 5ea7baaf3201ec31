package preinvoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Mode indicates how the draft content was produced
type Mode string

const (
	// ModeManual means the draft is being typed in by hand
	ModeManual Mode = "manual"
	// ModeImported means the draft was replaced wholesale by an electronic
	// invoice import; header fields sourced from the import become
	// read-only.
	ModeImported Mode = "imported"
)

// Header holds the document metadata of the draft
type Header struct {
	DocumentNumber       string
	Series               string
	EmissionDate         time.Time
	SupplierCode         string
	SupplierName         string
	BranchCode           string
	PaymentConditionCode string
	Remark               string
}

// Draft is the mutable aggregate of one editing session: one pre-invoice
// being assembled before submission. It decomposes a single monetary total
// into three mutually constrained views (items, installments, allocations)
// and revalidates the cross-view invariants after every mutation.
//
// The draft is owned by exactly one editing session; concurrent surfaces
// are last-write-wins by design, so no locking happens here.
type Draft struct {
	shared.BaseEntity

	mode         Mode
	header       Header
	items        []*Item
	installments []*Installment
	allocations  []*Allocation
	attachments  []AttachmentMeta

	pendingMerges map[uuid.UUID]*MergeProposal

	total      decimal.Decimal
	totalValid bool

	validator      *ConsistencyValidator
	lastValidation ValidationResult
}

// NewDraft creates an empty draft in manual mode
func NewDraft() *Draft {
	d := &Draft{
		BaseEntity:    shared.NewBaseEntity(),
		mode:          ModeManual,
		pendingMerges: make(map[uuid.UUID]*MergeProposal),
		validator:     NewConsistencyValidator(),
	}
	d.revalidate()
	return d
}

// Mode returns the draft mode
func (d *Draft) Mode() Mode {
	return d.mode
}

// Header returns a copy of the draft header
func (d *Draft) Header() Header {
	return d.header
}

// Items returns the draft items. The slice is a copy; the items are shared.
func (d *Draft) Items() []*Item {
	items := make([]*Item, len(d.items))
	copy(items, d.items)
	return items
}

// Installments returns the draft installments
func (d *Draft) Installments() []*Installment {
	installments := make([]*Installment, len(d.installments))
	copy(installments, d.installments)
	return installments
}

// Allocations returns the draft allocations
func (d *Draft) Allocations() []*Allocation {
	allocations := make([]*Allocation, len(d.allocations))
	copy(allocations, d.allocations)
	return allocations
}

// Attachments returns the committed attachment metadata
func (d *Draft) Attachments() []AttachmentMeta {
	attachments := make([]AttachmentMeta, len(d.attachments))
	copy(attachments, d.attachments)
	return attachments
}

// LastValidation returns the validation result of the most recent mutation
func (d *Draft) LastValidation() ValidationResult {
	return d.lastValidation
}

// Submittable returns true if the last validation found no violations
func (d *Draft) Submittable() bool {
	return d.lastValidation.Valid
}

// DocumentTotal returns the authoritative document total derived from the
// items. The value is cached and invalidated on every item-list mutation.
func (d *Draft) DocumentTotal() decimal.Decimal {
	if !d.totalValid {
		d.total = ResolveTotal(d.items)
		d.totalValid = true
	}
	return d.total
}

func (d *Draft) invalidateTotal() {
	d.totalValid = false
}

// UpdateHeader replaces the editable header fields. Once the draft is in
// imported mode, fields sourced from the import (document number, series,
// emission date, branch) are read-only and attempts to change them fail.
func (d *Draft) UpdateHeader(header Header) error {
	if d.mode == ModeImported {
		locked := d.header.DocumentNumber != header.DocumentNumber ||
			d.header.Series != header.Series ||
			!d.header.EmissionDate.Equal(header.EmissionDate) ||
			d.header.BranchCode != header.BranchCode
		if locked {
			return shared.ErrHeaderLocked
		}
	}
	d.header = header
	d.Touch()
	return nil
}

// ApplyImport replaces the draft content wholesale with the result of an
// electronic invoice import and switches the draft to imported mode. Any
// pending merges, installments and allocations from the previous content
// are discarded.
func (d *Draft) ApplyImport(header Header, items []*Item) {
	d.header = header
	d.items = items
	d.installments = nil
	d.allocations = nil
	d.pendingMerges = make(map[uuid.UUID]*MergeProposal)
	d.mode = ModeImported
	d.invalidateTotal()
	d.revalidate()
	d.Touch()
}

// AddItem appends a manually entered item. The sequence code must be unique
// within the draft.
func (d *Draft) AddItem(item *Item) error {
	for _, existing := range d.items {
		if existing.Sequence == item.Sequence {
			return shared.NewDomainError("DUPLICATE_SEQUENCE", "Item sequence already exists in the draft")
		}
	}
	d.items = append(d.items, item)
	d.invalidateTotal()
	d.revalidate()
	return nil
}

// UpdateItemQuantity changes the quantity of one item and recomputes totals
func (d *Draft) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	item, err := d.item(itemID)
	if err != nil {
		return err
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	d.invalidateTotal()
	d.revalidate()
	return nil
}

// UpdateItemUnitPrice changes the unit price of one item and recomputes totals
func (d *Draft) UpdateItemUnitPrice(itemID uuid.UUID, unitPrice decimal.Decimal) error {
	item, err := d.item(itemID)
	if err != nil {
		return err
	}
	if err := item.UpdateUnitPrice(unitPrice); err != nil {
		return err
	}
	d.invalidateTotal()
	d.revalidate()
	return nil
}

// RemoveItem deletes an item from the draft
func (d *Draft) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range d.items {
		if item.ID == itemID {
			d.items = append(d.items[:idx], d.items[idx+1:]...)
			delete(d.pendingMerges, itemID)
			d.invalidateTotal()
			d.revalidate()
			return nil
		}
	}
	return shared.ErrRowNotFound
}

// SeedInstallments replaces the installment schedule wholesale. Schedules
// come from the payment-condition lookup; the draft only validates them.
func (d *Draft) SeedInstallments(installments []*Installment) {
	d.installments = installments
	d.revalidate()
	d.Touch()
}

// AddAllocation validates and appends a new allocation row. A request above
// the remaining budget is never rejected: the engine clamps the stored
// value/percentage to the remaining budget.
func (d *Draft) AddAllocation(branchCode, costCenterCode string, value decimal.Decimal) (*Allocation, error) {
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Allocation value must be positive")
	}

	remaining := RemainingBudget(d.allocations, d.DocumentTotal(), uuid.Nil)
	amounts := SetValue(value, d.DocumentTotal(), remaining)
	alloc, err := newAllocation(len(d.allocations)+1, branchCode, costCenterCode, amounts)
	if err != nil {
		return nil, err
	}

	d.allocations = append(d.allocations, alloc)
	d.revalidate()
	return alloc, nil
}

// SetAllocationValue edits the value side of one allocation row. The result
// is clamped to the budget remaining after all other rows and the paired
// percentage is derived; the clamped amounts are returned for display.
func (d *Draft) SetAllocationValue(allocationID uuid.UUID, value decimal.Decimal) (AllocationAmounts, error) {
	alloc, err := d.allocation(allocationID)
	if err != nil {
		return AllocationAmounts{}, err
	}

	remaining := RemainingBudget(d.allocations, d.DocumentTotal(), allocationID)
	amounts := SetValue(value, d.DocumentTotal(), remaining)
	alloc.Value = amounts.Value
	alloc.Percentage = amounts.Percentage
	d.revalidate()
	return amounts, nil
}

// SetAllocationPercentage edits the percentage side of one allocation row
func (d *Draft) SetAllocationPercentage(allocationID uuid.UUID, percentage decimal.Decimal) (AllocationAmounts, error) {
	alloc, err := d.allocation(allocationID)
	if err != nil {
		return AllocationAmounts{}, err
	}

	remaining := RemainingBudget(d.allocations, d.DocumentTotal(), allocationID)
	amounts := SetPercentage(percentage, d.DocumentTotal(), remaining)
	alloc.Value = amounts.Value
	alloc.Percentage = amounts.Percentage
	d.revalidate()
	return amounts, nil
}

// RemoveAllocation deletes an allocation row and resequences the rest
func (d *Draft) RemoveAllocation(allocationID uuid.UUID) error {
	for idx, alloc := range d.allocations {
		if alloc.ID == allocationID {
			d.allocations = append(d.allocations[:idx], d.allocations[idx+1:]...)
			for i, remaining := range d.allocations {
				remaining.Sequence = i + 1
			}
			d.revalidate()
			return nil
		}
	}
	return shared.ErrRowNotFound
}

// SetAttachments replaces the committed attachment metadata in one step.
// Callers compute the diff beforehand via AttachmentStage so partial
// application cannot happen.
func (d *Draft) SetAttachments(attachments []AttachmentMeta) {
	d.attachments = attachments
	d.Touch()
}

// ApplySubmissionReceipt records the backend record ids echoed by the
// submission endpoint onto the allocation rows, matched by sequence.
func (d *Draft) ApplySubmissionReceipt(receipt *SubmissionReceipt) {
	if receipt == nil {
		return
	}
	for _, alloc := range d.allocations {
		if originID, ok := receipt.AllocationOriginIDs[alloc.Sequence]; ok {
			alloc.OriginID = originID
		}
	}
	d.Touch()
}

func (d *Draft) item(itemID uuid.UUID) (*Item, error) {
	for _, item := range d.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, shared.ErrRowNotFound
}

func (d *Draft) allocation(allocationID uuid.UUID) (*Allocation, error) {
	for _, alloc := range d.allocations {
		if alloc.ID == allocationID {
			return alloc, nil
		}
	}
	return nil, shared.ErrRowNotFound
}

// revalidate re-runs the consistency validator and stores the result as the
// observable last validation state.
func (d *Draft) revalidate() {
	d.lastValidation = d.validator.Validate(d.DocumentTotal(), d.installments, d.allocations)
}
