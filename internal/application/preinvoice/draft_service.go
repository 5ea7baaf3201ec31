package preinvoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/preinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DraftService orchestrates the editing session of a pre-invoice draft:
// external lookups feed candidate records in, the domain engine keeps the
// three views consistent, and submission is gated on a clean validation.
type DraftService struct {
	sessions   *SessionManager
	importer   preinvoice.InvoiceImporter
	suppliers  preinvoice.SupplierLookup
	products   preinvoice.ProductLookup
	orders     preinvoice.PurchaseOrderLookup
	conditions preinvoice.PaymentConditionLookup
	catalog    preinvoice.CatalogLookup
	submitter  preinvoice.SubmissionEndpoint
	logger     *zap.Logger
}

// NewDraftService creates a new DraftService
func NewDraftService(
	sessions *SessionManager,
	importer preinvoice.InvoiceImporter,
	suppliers preinvoice.SupplierLookup,
	products preinvoice.ProductLookup,
	orders preinvoice.PurchaseOrderLookup,
	conditions preinvoice.PaymentConditionLookup,
	catalogLookup preinvoice.CatalogLookup,
	submitter preinvoice.SubmissionEndpoint,
	logger *zap.Logger,
) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{
		sessions:   sessions,
		importer:   importer,
		suppliers:  suppliers,
		products:   products,
		orders:     orders,
		conditions: conditions,
		catalog:    catalogLookup,
		submitter:  submitter,
		logger:     logger,
	}
}

// OpenSession starts an editing session with an empty draft
func (s *DraftService) OpenSession() (uuid.UUID, *preinvoice.Draft) {
	sessionID, draft := s.sessions.Open()
	s.logger.Info("Editing session opened", zap.String("session_id", sessionID.String()))
	return sessionID, draft
}

// GetDraft returns the draft of an open session
func (s *DraftService) GetDraft(sessionID uuid.UUID) (*preinvoice.Draft, error) {
	return s.sessions.Get(sessionID)
}

// CloseSession discards the session draft
func (s *DraftService) CloseSession(sessionID uuid.UUID) error {
	if err := s.sessions.Close(sessionID); err != nil {
		return err
	}
	s.logger.Info("Editing session closed", zap.String("session_id", sessionID.String()))
	return nil
}

// UpdateHeader replaces the editable header fields of the draft
func (s *DraftService) UpdateHeader(sessionID uuid.UUID, header preinvoice.Header) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.UpdateHeader(header)
}

// ImportInvoice fetches an electronic invoice and replaces the draft
// content wholesale. A failed fetch leaves the draft untouched.
func (s *DraftService) ImportInvoice(ctx context.Context, sessionID uuid.UUID, key preinvoice.InvoiceKey) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	imported, err := s.importer.Import(ctx, key)
	if err != nil {
		s.logger.Warn("Invoice import failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return err
	}

	items := make([]*preinvoice.Item, 0, len(imported.Items))
	for _, record := range imported.Items {
		item, err := preinvoice.NewItem(
			record.Sequence,
			record.SupplierProductCode,
			record.SupplierDescription,
			record.Unit,
			record.Quantity,
			record.UnitPrice,
		)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	draft.ApplyImport(imported.Header, items)
	s.logger.Info("Invoice imported into draft",
		zap.String("session_id", sessionID.String()),
		zap.Int("items", len(items)),
		zap.String("total", draft.DocumentTotal().StringFixed(2)),
	)
	return nil
}

// SearchSuppliers proxies the supplier lookup
func (s *DraftService) SearchSuppliers(ctx context.Context, term string) ([]preinvoice.SupplierRecord, error) {
	return s.suppliers.SearchSuppliers(ctx, term)
}

// SearchProducts proxies the product lookup
func (s *DraftService) SearchProducts(ctx context.Context, term string) ([]preinvoice.ProductRecord, error) {
	return s.products.SearchProducts(ctx, term)
}

// ReconcileWithOrder looks up a purchase order and merges its lines into
// the draft items. The lookup result is treated as an immutable input; a
// failed fetch yields no candidates and leaves the draft untouched.
func (s *DraftService) ReconcileWithOrder(ctx context.Context, sessionID uuid.UUID, supplierCode, orderNumber string) (*preinvoice.ReconcileResult, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindOrder(ctx, supplierCode, orderNumber)
	if err != nil {
		return nil, err
	}

	result := draft.ReconcileOrder(order.Lines)
	s.logger.Info("Purchase order reconciled",
		zap.String("session_id", sessionID.String()),
		zap.String("order_number", orderNumber),
		zap.Int("committed", len(result.Committed)),
		zap.Int("pending", len(result.Pending)),
	)
	return &result, nil
}

// LinkItem manually links one item to a purchase order line
func (s *DraftService) LinkItem(sessionID uuid.UUID, itemID uuid.UUID, line preinvoice.OrderLine) (*preinvoice.MergeProposal, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return draft.LinkItem(itemID, line)
}

// ConfirmMerge resolves a pending unit-divergence with the final quantity
func (s *DraftService) ConfirmMerge(sessionID uuid.UUID, itemID uuid.UUID, finalQuantity decimal.Decimal) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.ConfirmMerge(itemID, finalQuantity)
}

// RejectMerge discards a pending merge proposal
func (s *DraftService) RejectMerge(sessionID uuid.UUID, itemID uuid.UUID) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.RejectMerge(itemID)
}

// AddItemRequest carries the fields of a manually entered item
type AddItemRequest struct {
	Sequence            string
	SupplierProductCode string
	SupplierDescription string
	Unit                string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
}

// AddItem appends a manually entered item to the draft
func (s *DraftService) AddItem(sessionID uuid.UUID, req AddItemRequest) (*preinvoice.Item, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	item, err := preinvoice.NewItem(req.Sequence, req.SupplierProductCode, req.SupplierDescription, req.Unit, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := draft.AddItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity changes one item quantity
func (s *DraftService) UpdateItemQuantity(sessionID uuid.UUID, itemID uuid.UUID, quantity decimal.Decimal) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.UpdateItemQuantity(itemID, quantity)
}

// UpdateItemUnitPrice changes one item unit price
func (s *DraftService) UpdateItemUnitPrice(sessionID uuid.UUID, itemID uuid.UUID, unitPrice decimal.Decimal) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.UpdateItemUnitPrice(itemID, unitPrice)
}

// RemoveItem removes one item from the draft
func (s *DraftService) RemoveItem(sessionID uuid.UUID, itemID uuid.UUID) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.RemoveItem(itemID)
}

// SeedInstallments fetches the schedule of a payment condition for the
// current document total and replaces the draft installments with it
func (s *DraftService) SeedInstallments(ctx context.Context, sessionID uuid.UUID, conditionCode string, baseDate time.Time) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	installments, err := s.conditions.Schedule(ctx, conditionCode, baseDate, draft.DocumentTotal())
	if err != nil {
		return err
	}

	draft.SeedInstallments(installments)
	return nil
}

// AddAllocation validates the branch and cost center against the catalog
// and appends a new allocation row
func (s *DraftService) AddAllocation(ctx context.Context, sessionID uuid.UUID, branchCode, costCenterCode string, value decimal.Decimal) (*preinvoice.Allocation, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	exists, err := s.catalog.BranchExists(ctx, branchCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("UNKNOWN_BRANCH", "Branch does not exist in the catalog")
	}

	exists, err = s.catalog.CostCenterExists(ctx, costCenterCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("UNKNOWN_COST_CENTER", "Cost center does not exist in the catalog")
	}

	return draft.AddAllocation(branchCode, costCenterCode, value)
}

// SetAllocationValue edits the value side of one allocation row
func (s *DraftService) SetAllocationValue(sessionID uuid.UUID, allocationID uuid.UUID, value decimal.Decimal) (preinvoice.AllocationAmounts, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return preinvoice.AllocationAmounts{}, err
	}
	return draft.SetAllocationValue(allocationID, value)
}

// SetAllocationPercentage edits the percentage side of one allocation row
func (s *DraftService) SetAllocationPercentage(sessionID uuid.UUID, allocationID uuid.UUID, percentage decimal.Decimal) (preinvoice.AllocationAmounts, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return preinvoice.AllocationAmounts{}, err
	}
	return draft.SetAllocationPercentage(allocationID, percentage)
}

// RemoveAllocation removes one allocation row
func (s *DraftService) RemoveAllocation(sessionID uuid.UUID, allocationID uuid.UUID) error {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return draft.RemoveAllocation(allocationID)
}

// SaveAttachments applies a working attachment list to the draft through
// the two-phase stage and returns the computed diff so callers can move the
// binary content accordingly.
func (s *DraftService) SaveAttachments(sessionID uuid.UUID, working []preinvoice.AttachmentMeta) (preinvoice.AttachmentDiff, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return preinvoice.AttachmentDiff{}, err
	}

	stage := preinvoice.NewAttachmentStage(draft.Attachments())
	for _, meta := range stage.Working() {
		if err := stage.Remove(meta.Sequence); err != nil {
			return preinvoice.AttachmentDiff{}, err
		}
	}
	for _, meta := range working {
		if err := stage.Add(meta); err != nil {
			return preinvoice.AttachmentDiff{}, err
		}
	}
	diff := stage.Commit(draft)
	return diff, nil
}

// Validate re-runs the consistency validator and returns the verdict
func (s *DraftService) Validate(sessionID uuid.UUID) (preinvoice.ValidationResult, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return preinvoice.ValidationResult{}, err
	}
	return draft.LastValidation(), nil
}

// Submit hands the draft to the submission endpoint. Submission is refused
// while the validator reports violations.
func (s *DraftService) Submit(ctx context.Context, sessionID uuid.UUID) (*preinvoice.SubmissionReceipt, error) {
	draft, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if !draft.Submittable() {
		return nil, shared.NewDomainError("DRAFT_INCONSISTENT", "Draft has consistency violations and cannot be submitted")
	}
	if len(draft.PendingMerges()) > 0 {
		return nil, shared.ErrPendingConfirmation
	}

	receipt, err := s.submitter.Submit(ctx, draft)
	if err != nil {
		s.logger.Error("Draft submission failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	draft.ApplySubmissionReceipt(receipt)
	s.logger.Info("Draft submitted",
		zap.String("session_id", sessionID.String()),
		zap.String("document_id", receipt.DocumentID),
	)
	return receipt, nil
}
