package erp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, func()) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-key", 2*time.Second)
	return client, server.Close
}

func fetchKind(t *testing.T, err error) preinvoice.FetchErrorKind {
	t.Helper()
	var fetchErr *preinvoice.FetchError
	require.ErrorAs(t, err, &fetchErr)
	return fetchErr.Kind
}

func TestClient_ErrorTagging(t *testing.T) {
	t.Run("server error tagged as network", func(t *testing.T) {
		client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer done()

		var out map[string]any
		err := client.getJSON(context.Background(), "test", "/x", nil, &out)
		assert.Equal(t, preinvoice.FetchErrorNetwork, fetchKind(t, err))
	})

	t.Run("client error tagged as logical", func(t *testing.T) {
		client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invoice not found", http.StatusNotFound)
		}))
		defer done()

		var out map[string]any
		err := client.getJSON(context.Background(), "test", "/x", nil, &out)
		assert.Equal(t, preinvoice.FetchErrorLogical, fetchKind(t, err))
	})

	t.Run("malformed body tagged as parse", func(t *testing.T) {
		client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer done()

		var out map[string]any
		err := client.getJSON(context.Background(), "test", "/x", nil, &out)
		assert.Equal(t, preinvoice.FetchErrorParse, fetchKind(t, err))
	})

	t.Run("unreachable host tagged as network", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)

		var out map[string]any
		err := client.getJSON(context.Background(), "test", "/x", nil, &out)
		assert.Equal(t, preinvoice.FetchErrorNetwork, fetchKind(t, err))
	})
}

func TestClient_SendsAuthHeader(t *testing.T) {
	var gotAuth string
	client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer done()

	var out map[string]any
	require.NoError(t, client.getJSON(context.Background(), "test", "/x", nil, &out))
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestInvoiceAdapter_Import(t *testing.T) {
	client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/invoices", r.URL.Path)
		assert.Equal(t, "35200714200166000187550010000000046550", r.URL.Query().Get("access_key"))
		w.Write([]byte(`{
			"document_number": "000123",
			"series": "1",
			"emission_date": "2026-07-01T00:00:00Z",
			"supplier_code": "F0042",
			"supplier_name": "Fornecedora Alfa",
			"branch_code": "0101",
			"items": [
				{"sequence": "001", "product_code": "ABC-9", "description": "Parafuso", "unit": "CX", "quantity": 2, "unit_price": 10.5}
			]
		}`))
	}))
	defer done()

	adapter := NewInvoiceAdapter(client)
	imported, err := adapter.Import(context.Background(), preinvoice.InvoiceKey{AccessKey: "35200714200166000187550010000000046550"})
	require.NoError(t, err)

	assert.Equal(t, "000123", imported.Header.DocumentNumber)
	assert.Equal(t, "F0042", imported.Header.SupplierCode)
	require.Len(t, imported.Items, 1)
	assert.Equal(t, "ABC-9", imported.Items[0].SupplierProductCode)
	assert.Equal(t, "CX", imported.Items[0].Unit)
	assert.Equal(t, "10.5", imported.Items[0].UnitPrice.String())
}

func TestLookupAdapter_FindOrder(t *testing.T) {
	client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "F0042", r.URL.Query().Get("supplier"))
		assert.Equal(t, "PO-77", r.URL.Query().Get("number"))
		w.Write([]byte(`{
			"number": "PO-77",
			"supplier_code": "F0042",
			"issue_date": "2026-06-15T00:00:00Z",
			"lines": [
				{"line_code": "001", "product_code": "P-1", "description": "Parafuso", "quantity": 24, "unit_price": 0.875, "unit": "UN"}
			]
		}`))
	}))
	defer done()

	adapter := NewLookupAdapter(client)
	order, err := adapter.FindOrder(context.Background(), "F0042", "PO-77")
	require.NoError(t, err)

	assert.Equal(t, "PO-77", order.Number)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "PO-77", order.Lines[0].OrderNumber)
	assert.Equal(t, "UN", order.Lines[0].Unit)
}

func TestLookupAdapter_FailedFetchYieldsNoRecords(t *testing.T) {
	client, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer done()

	adapter := NewLookupAdapter(client)
	records, err := adapter.SearchSuppliers(context.Background(), "alfa")
	require.Error(t, err)
	assert.Nil(t, records)

	var fetchErr *preinvoice.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "supplier-lookup", fetchErr.Service)
}
