package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appsvc "github.com/preinvoice/backend/internal/application/preinvoice"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/preinvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubImporter returns a canned invoice or a tagged fetch error
type stubImporter struct {
	invoice *preinvoice.ImportedInvoice
	err     error
}

func (s *stubImporter) Import(_ context.Context, _ preinvoice.InvoiceKey) (*preinvoice.ImportedInvoice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.invoice, nil
}

// stubLookup serves supplier, product and purchase order lookups
type stubLookup struct {
	suppliers []preinvoice.SupplierRecord
	products  []preinvoice.ProductRecord
	order     *preinvoice.PurchaseOrderRecord
	err       error
}

func (s *stubLookup) SearchSuppliers(_ context.Context, _ string) ([]preinvoice.SupplierRecord, error) {
	return s.suppliers, s.err
}

func (s *stubLookup) SearchProducts(_ context.Context, _ string) ([]preinvoice.ProductRecord, error) {
	return s.products, s.err
}

func (s *stubLookup) FindOrder(_ context.Context, _, _ string) (*preinvoice.PurchaseOrderRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

// stubScheduler splits the total in two equal installments
type stubScheduler struct {
	err error
}

func (s *stubScheduler) Schedule(_ context.Context, _ string, baseDate time.Time, total decimal.Decimal) ([]*preinvoice.Installment, error) {
	if s.err != nil {
		return nil, s.err
	}
	half := total.Div(decimal.NewFromInt(2)).Round(2)
	first, err := preinvoice.NewInstallment(1, baseDate.AddDate(0, 0, 30), half)
	if err != nil {
		return nil, err
	}
	second, err := preinvoice.NewInstallment(2, baseDate.AddDate(0, 0, 60), total.Sub(half))
	if err != nil {
		return nil, err
	}
	return []*preinvoice.Installment{first, second}, nil
}

// stubCatalog knows a fixed set of branch / cost-center codes
type stubCatalog struct {
	branches    map[string]bool
	costCenters map[string]bool
}

func (s *stubCatalog) BranchExists(_ context.Context, code string) (bool, error) {
	return s.branches[code], nil
}

func (s *stubCatalog) CostCenterExists(_ context.Context, code string) (bool, error) {
	return s.costCenters[code], nil
}

// stubSubmitter returns a canned submission receipt
type stubSubmitter struct {
	receipt *preinvoice.SubmissionReceipt
	err     error
}

func (s *stubSubmitter) Submit(_ context.Context, _ *preinvoice.Draft) (*preinvoice.SubmissionReceipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

type draftRig struct {
	engine    *gin.Engine
	importer  *stubImporter
	lookup    *stubLookup
	scheduler *stubScheduler
	submitter *stubSubmitter
}

func newDraftRig() *draftRig {
	gin.SetMode(gin.TestMode)

	rig := &draftRig{
		importer:  &stubImporter{},
		lookup:    &stubLookup{},
		scheduler: &stubScheduler{},
		submitter: &stubSubmitter{},
	}
	service := appsvc.NewDraftService(
		appsvc.NewSessionManager(),
		rig.importer,
		rig.lookup,
		rig.lookup,
		rig.lookup,
		rig.scheduler,
		&stubCatalog{
			branches:    map[string]bool{"BR-1": true},
			costCenters: map[string]bool{"CC-1": true},
		},
		rig.submitter,
		nil,
	)

	rig.engine = gin.New()
	NewDraftHandler(service).RegisterRoutes(rig.engine.Group("/api/v1"))
	return rig
}

func (r *draftRig) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, "/api/v1"+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeResponse(t, w)
	require.True(t, resp.Success, "expected success, got %s", w.Body.String())
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	resp := decodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func decimalField(t *testing.T, data map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	raw, ok := data[key].(string)
	require.True(t, ok, "field %s is not a decimal string", key)
	return decimal.RequireFromString(raw)
}

func (r *draftRig) openSession(t *testing.T) string {
	t.Helper()
	w := r.do(t, http.MethodPost, "/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return dataOf(t, w)["session_id"].(string)
}

func (r *draftRig) addItem(t *testing.T, sessionID, sequence, quantity, unitPrice string) string {
	t.Helper()
	w := r.do(t, http.MethodPost, "/drafts/"+sessionID+"/items", dto.AddItemRequest{
		Sequence:            sequence,
		SupplierProductCode: "SUP-1",
		SupplierDescription: "Widget",
		Unit:                "UN",
		Quantity:            decimal.RequireFromString(quantity),
		UnitPrice:           decimal.RequireFromString(unitPrice),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return dataOf(t, w)["id"].(string)
}

func TestDraftHandler_SessionLifecycle(t *testing.T) {
	rig := newDraftRig()

	w := rig.do(t, http.MethodPost, "/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataOf(t, w)
	sessionID := data["session_id"].(string)
	assert.NotEmpty(t, sessionID)

	draft := data["draft"].(map[string]interface{})
	assert.Equal(t, "manual", draft["mode"])

	t.Run("get returns the draft", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/drafts/"+sessionID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "manual", dataOf(t, w)["mode"])
	})

	t.Run("malformed session id", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/drafts/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorOf(t, w).Code)
	})

	t.Run("close discards the session", func(t *testing.T) {
		w := rig.do(t, http.MethodDelete, "/drafts/"+sessionID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = rig.do(t, http.MethodGet, "/drafts/"+sessionID, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorOf(t, w).Code)
	})
}

func TestDraftHandler_Items(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)

	t.Run("add item returns the stored row", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/items", dto.AddItemRequest{
			Sequence:  "001",
			Unit:      "UN",
			Quantity:  decimal.RequireFromString("3"),
			UnitPrice: decimal.RequireFromString("2.0349"),
		})
		require.Equal(t, http.StatusCreated, w.Code)
		data := dataOf(t, w)
		assert.Equal(t, "001", data["sequence"])
		assert.True(t, decimalField(t, data, "total").Equal(decimal.RequireFromString("6.10")))
	})

	t.Run("quantity edit answers with the refreshed draft", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/drafts/"+sessionID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := dataOf(t, w)["items"].([]interface{})
		itemID := items[0].(map[string]interface{})["id"].(string)

		w = rig.do(t, http.MethodPatch, "/drafts/"+sessionID+"/items/"+itemID+"/quantity", dto.UpdateQuantityRequest{
			Quantity: decimal.RequireFromString("2"),
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.True(t, decimalField(t, data, "document_total").Equal(decimal.RequireFromString("4.07")))

		w = rig.do(t, http.MethodDelete, "/drafts/"+sessionID+"/items/"+itemID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, dataOf(t, w)["items"])
	})

	t.Run("invalid quantity is a business error", func(t *testing.T) {
		itemID := rig.addItem(t, sessionID, "002", "1", "5.00")
		w := rig.do(t, http.MethodPatch, "/drafts/"+sessionID+"/items/"+itemID+"/quantity", dto.UpdateQuantityRequest{
			Quantity: decimal.RequireFromString("-1"),
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorOf(t, w).Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "/api/v1/drafts/"+sessionID+"/items", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rig.engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDraftHandler_ImportInvoice(t *testing.T) {
	t.Run("import replaces the draft content", func(t *testing.T) {
		rig := newDraftRig()
		sessionID := rig.openSession(t)
		rig.importer.invoice = &preinvoice.ImportedInvoice{
			Header: preinvoice.Header{DocumentNumber: "456", SupplierCode: "SUP-9", SupplierName: "Acme"},
			Items: []preinvoice.ImportedItem{
				{Sequence: "001", SupplierProductCode: "A", Unit: "UN", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("5.00")},
			},
		}

		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/import", dto.ImportInvoiceRequest{AccessKey: "key"})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.Equal(t, "imported", data["mode"])
		assert.True(t, decimalField(t, data, "document_total").Equal(decimal.RequireFromString("10.00")))

		header := data["header"].(map[string]interface{})
		assert.Equal(t, "456", header["document_number"])
	})

	t.Run("unreachable upstream maps to 502", func(t *testing.T) {
		rig := newDraftRig()
		sessionID := rig.openSession(t)
		rig.importer.err = preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, "invoice-import", errors.New("down"))

		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/import", dto.ImportInvoiceRequest{AccessKey: "key"})
		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeUpstreamUnavailable, errorOf(t, w).Code)
	})

	t.Run("upstream rejection maps to 422", func(t *testing.T) {
		rig := newDraftRig()
		sessionID := rig.openSession(t)
		rig.importer.err = preinvoice.NewFetchError(preinvoice.FetchErrorLogical, "invoice-import", errors.New("cancelled invoice"))

		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/import", dto.ImportInvoiceRequest{AccessKey: "key"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeUpstreamRejected, errorOf(t, w).Code)
	})

	t.Run("missing access key", func(t *testing.T) {
		rig := newDraftRig()
		sessionID := rig.openSession(t)
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/import", map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDraftHandler_Reconcile(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)
	rig.addItem(t, sessionID, "001", "10", "2.00")
	rig.lookup.order = &preinvoice.PurchaseOrderRecord{
		Number:       "PO-77",
		SupplierCode: "SUP-9",
		Lines: []preinvoice.OrderLine{{
			OrderNumber: "PO-77", LineCode: "001", ProductCode: "INT-1",
			Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("2.00"), Unit: "UN",
		}},
	}

	w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/reconcile", dto.ReconcileRequest{
		SupplierCode: "SUP-9",
		OrderNumber:  "PO-77",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	require.Len(t, data["committed"], 1)
	assert.Empty(t, data["pending"])

	committed := data["committed"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "PO-77", committed["order_number"])
}

func TestDraftHandler_MergeProtocol(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)
	itemID := rig.addItem(t, sessionID, "001", "10", "2.00")

	link := dto.LinkItemRequest{
		OrderNumber: "PO-1", LineCode: "001", ProductCode: "INT-1",
		Quantity:  decimal.RequireFromString("10"),
		UnitPrice: decimal.RequireFromString("2.00"),
		Unit:      "CX",
	}

	t.Run("diverging units leave a pending proposal", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/items/"+itemID+"/link", link)
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.Equal(t, "pending", data["status"])
		assert.Equal(t, "UN", data["imported_unit"])
		assert.Equal(t, "CX", data["order_unit"])

		w = rig.do(t, http.MethodGet, "/drafts/"+sessionID+"/merges", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.True(t, resp.Success)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("confirm applies the final quantity", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/merges/"+itemID+"/confirm", dto.ConfirmMergeRequest{
			Quantity: decimal.RequireFromString("5"),
		})
		require.Equal(t, http.StatusOK, w.Code)

		data := dataOf(t, w)
		item := data["items"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, true, item["linked"])
		assert.True(t, decimalField(t, item, "quantity").Equal(decimal.RequireFromString("5")))
	})

	t.Run("reject discards a new proposal", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/items/"+itemID+"/link", link)
		require.Equal(t, http.StatusOK, w.Code)

		w = rig.do(t, http.MethodDelete, "/drafts/"+sessionID+"/merges/"+itemID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = rig.do(t, http.MethodGet, "/drafts/"+sessionID+"/merges", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeResponse(t, w).Data)
	})
}

func TestDraftHandler_Installments(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)
	rig.addItem(t, sessionID, "001", "10", "10.00")

	w := rig.do(t, http.MethodPut, "/drafts/"+sessionID+"/installments", dto.SeedInstallmentsRequest{
		ConditionCode: "30-60",
		BaseDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusOK, w.Code)

	installments := dataOf(t, w)["installments"].([]interface{})
	require.Len(t, installments, 2)
	first := installments[0].(map[string]interface{})
	assert.True(t, decimalField(t, first, "value").Equal(decimal.RequireFromString("50.00")))
}

func TestDraftHandler_Allocations(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)
	rig.addItem(t, sessionID, "001", "10", "10.00")

	t.Run("unknown branch is a business error", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/allocations", dto.AddAllocationRequest{
			BranchCode:     "BR-9",
			CostCenterCode: "CC-1",
			Value:          decimal.RequireFromString("50.00"),
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeBusinessRule, errorOf(t, w).Code)
	})

	var allocationID string

	t.Run("valid row lands with both sides computed", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/allocations", dto.AddAllocationRequest{
			BranchCode:     "BR-1",
			CostCenterCode: "CC-1",
			Value:          decimal.RequireFromString("40.00"),
		})
		require.Equal(t, http.StatusCreated, w.Code)
		data := dataOf(t, w)
		allocationID = data["id"].(string)
		assert.True(t, decimalField(t, data, "value").Equal(decimal.RequireFromString("40.00")))
		assert.True(t, decimalField(t, data, "percentage").Equal(decimal.RequireFromString("40.00")))
	})

	t.Run("value edit clamps to the remaining budget", func(t *testing.T) {
		w := rig.do(t, http.MethodPatch, "/drafts/"+sessionID+"/allocations/"+allocationID+"/value", dto.SetAllocationValueRequest{
			Value: decimal.RequireFromString("150.00"),
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.True(t, decimalField(t, data, "value").Equal(decimal.RequireFromString("100.00")))
		assert.True(t, decimalField(t, data, "percentage").Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("percentage edit recomputes the value", func(t *testing.T) {
		w := rig.do(t, http.MethodPatch, "/drafts/"+sessionID+"/allocations/"+allocationID+"/percentage", dto.SetAllocationPercentageRequest{
			Percentage: decimal.RequireFromString("40"),
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.True(t, decimalField(t, data, "value").Equal(decimal.RequireFromString("40.00")))
	})

	t.Run("remove answers with the refreshed draft", func(t *testing.T) {
		w := rig.do(t, http.MethodDelete, "/drafts/"+sessionID+"/allocations/"+allocationID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, dataOf(t, w)["allocations"])
	})
}

func TestDraftHandler_Attachments(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)

	w := rig.do(t, http.MethodPut, "/drafts/"+sessionID+"/attachments", dto.SaveAttachmentsRequest{
		Attachments: []dto.AttachmentRequest{
			{Sequence: 1, Filename: "invoice.pdf", Description: "original"},
			{Sequence: 2, Filename: "photo.jpg"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Len(t, data["added"], 2)
	assert.Empty(t, data["removed"])

	t.Run("replacing one row reports the diff", func(t *testing.T) {
		w := rig.do(t, http.MethodPut, "/drafts/"+sessionID+"/attachments", dto.SaveAttachmentsRequest{
			Attachments: []dto.AttachmentRequest{
				{Sequence: 1, Filename: "invoice-v2.pdf", Description: "original"},
				{Sequence: 2, Filename: "photo.jpg"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.Empty(t, data["added"])
		assert.Empty(t, data["removed"])
		require.Len(t, data["updated"], 1)

		updated := data["updated"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "invoice-v2.pdf", updated["filename"])
	})

	t.Run("blank filename is refused", func(t *testing.T) {
		w := rig.do(t, http.MethodPut, "/drafts/"+sessionID+"/attachments", dto.SaveAttachmentsRequest{
			Attachments: []dto.AttachmentRequest{{Sequence: 1, Filename: "   "}},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDraftHandler_ValidationAndSubmit(t *testing.T) {
	rig := newDraftRig()
	sessionID := rig.openSession(t)
	rig.addItem(t, sessionID, "001", "10", "10.00")

	t.Run("items without installments or allocations are inconsistent", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/drafts/"+sessionID+"/validation", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, w)
		assert.Equal(t, false, data["valid"])
		assert.NotEmpty(t, data["violations"])
	})

	t.Run("submission is blocked while inconsistent", func(t *testing.T) {
		w := rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/submit", nil)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeDraftInconsistent, errorOf(t, w).Code)
	})

	t.Run("consistent draft submits", func(t *testing.T) {
		w := rig.do(t, http.MethodPut, "/drafts/"+sessionID+"/installments", dto.SeedInstallmentsRequest{
			ConditionCode: "30-60",
			BaseDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/allocations", dto.AddAllocationRequest{
			BranchCode:     "BR-1",
			CostCenterCode: "CC-1",
			Value:          decimal.RequireFromString("100.00"),
		})
		require.Equal(t, http.StatusCreated, w.Code)

		rig.submitter.receipt = &preinvoice.SubmissionReceipt{DocumentID: "DOC-9"}
		w = rig.do(t, http.MethodPost, "/drafts/"+sessionID+"/submit", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "DOC-9", dataOf(t, w)["document_id"])
	})
}

func TestDraftHandler_Lookups(t *testing.T) {
	rig := newDraftRig()
	rig.lookup.suppliers = []preinvoice.SupplierRecord{{Code: "SUP-1", Name: "Acme", TaxID: "123"}}
	rig.lookup.products = []preinvoice.ProductRecord{{Code: "P-1", Description: "Widget", Unit: "UN"}}

	w := rig.do(t, http.MethodGet, "/lookups/suppliers?q=acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	suppliers := resp.Data.([]interface{})
	require.Len(t, suppliers, 1)
	assert.Equal(t, "SUP-1", suppliers[0].(map[string]interface{})["code"])

	w = rig.do(t, http.MethodGet, "/lookups/products?q=widget", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)

	t.Run("lookup failure maps to the upstream error", func(t *testing.T) {
		rig.lookup.err = preinvoice.NewFetchError(preinvoice.FetchErrorNetwork, "supplier-lookup", errors.New("down"))
		w := rig.do(t, http.MethodGet, "/lookups/suppliers?q=acme", nil)
		require.Equal(t, http.StatusBadGateway, w.Code)
	})
}
