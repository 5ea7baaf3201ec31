package preinvoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftWithItems(t *testing.T, items ...*Item) *Draft {
	t.Helper()
	d := NewDraft()
	for _, item := range items {
		require.NoError(t, d.AddItem(item))
	}
	return d
}

func mustItem(t *testing.T, sequence, code, unit, quantity, price string) *Item {
	t.Helper()
	item, err := NewItem(sequence, code, "desc "+code, unit, dec(quantity), dec(price))
	require.NoError(t, err)
	return item
}

func TestReconcileOrder_MatchingUnitsCommit(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "10", "2.00")
	d := draftWithItems(t, item)

	lines := []OrderLine{{
		OrderNumber: "PO-77",
		LineCode:    "001",
		ProductCode: "INT-1",
		Description: "internal desc",
		Quantity:    dec("12"),
		UnitPrice:   dec("1.90"),
		Unit:        "un", // case-insensitive match
	}}

	result := d.ReconcileOrder(lines)
	require.Len(t, result.Committed, 1)
	assert.Empty(t, result.Pending)
	assert.Empty(t, result.UnmatchedItems)
	assert.Empty(t, result.UnmatchedLines)

	// Order fields overlaid, supplier fields untouched
	assert.True(t, item.Linked)
	assert.Equal(t, "INT-1", item.ProductCode)
	assert.Equal(t, "PO-77", item.OrderNumber)
	assert.Equal(t, "001", item.OrderItemCode)
	assert.Equal(t, "un", item.Unit)
	assert.True(t, item.Quantity.Equal(dec("12")))
	assert.True(t, item.UnitPrice.Equal(dec("1.90")))
	assert.True(t, item.Total.Equal(dec("22.80")))

	assert.Equal(t, "SUP-1", item.SupplierProductCode)
	assert.Equal(t, "desc SUP-1", item.SupplierDescription)
	assert.Equal(t, "UN", item.SupplierUnit)
}

func TestReconcileOrder_DivergingUnitsPend(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "10", "2.00")
	d := draftWithItems(t, item)

	lines := []OrderLine{{
		OrderNumber: "PO-77",
		LineCode:    "001",
		ProductCode: "INT-1",
		Quantity:    dec("2"),
		UnitPrice:   dec("10.00"),
		Unit:        "CX",
	}}

	result := d.ReconcileOrder(lines)
	assert.Empty(t, result.Committed)
	require.Len(t, result.Pending, 1)

	proposal := result.Pending[0]
	assert.Equal(t, item.ID, proposal.ItemID)
	assert.Equal(t, MergeStatusPending, proposal.Status)
	assert.True(t, proposal.ImportedQuantity.Equal(dec("10")))
	assert.Equal(t, "UN", proposal.ImportedUnit)
	assert.True(t, proposal.OrderQuantity.Equal(dec("2")))
	assert.Equal(t, "CX", proposal.OrderUnit)

	// Item stays imported-only until the quantity is confirmed
	assert.False(t, item.Linked)
	assert.Empty(t, item.ProductCode)
	assert.True(t, item.Quantity.Equal(dec("10")))
	require.Len(t, d.PendingMerges(), 1)
}

func TestConfirmMerge(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "10", "2.00")
	d := draftWithItems(t, item)
	d.ReconcileOrder([]OrderLine{{
		OrderNumber: "PO-77",
		LineCode:    "001",
		ProductCode: "INT-1",
		Quantity:    dec("2"),
		UnitPrice:   dec("10.00"),
		Unit:        "CX",
	}})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		require.Error(t, d.ConfirmMerge(item.ID, dec("0")))
		require.Len(t, d.PendingMerges(), 1)
	})

	t.Run("commits with the confirmed quantity", func(t *testing.T) {
		require.NoError(t, d.ConfirmMerge(item.ID, dec("3")))
		assert.Empty(t, d.PendingMerges())

		assert.True(t, item.Linked)
		assert.Equal(t, "INT-1", item.ProductCode)
		assert.Equal(t, "CX", item.Unit)
		// confirmed quantity wins over the order-declared one
		assert.True(t, item.Quantity.Equal(dec("3")))
		assert.True(t, item.UnitPrice.Equal(dec("10.00")))
		assert.True(t, item.Total.Equal(dec("30.00")))
	})

	t.Run("fails when nothing is pending", func(t *testing.T) {
		require.Error(t, d.ConfirmMerge(item.ID, dec("3")))
	})
}

func TestRejectMerge(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "10", "2.00")
	d := draftWithItems(t, item)
	d.ReconcileOrder([]OrderLine{{
		LineCode: "001", ProductCode: "INT-1", Quantity: dec("2"), UnitPrice: dec("10.00"), Unit: "CX",
	}})

	require.NoError(t, d.RejectMerge(item.ID))
	assert.Empty(t, d.PendingMerges())
	assert.False(t, item.Linked)
	assert.True(t, item.Quantity.Equal(dec("10")))

	require.Error(t, d.RejectMerge(item.ID))
	require.Error(t, d.RejectMerge(uuid.New()))
}

func TestReconcileOrder_Unmatched(t *testing.T) {
	matched := mustItem(t, "001", "SUP-1", "UN", "1", "1.00")
	orphan := mustItem(t, "002", "SUP-2", "UN", "1", "1.00")
	d := draftWithItems(t, matched, orphan)

	lines := []OrderLine{
		{LineCode: "001", ProductCode: "INT-1", Quantity: dec("1"), UnitPrice: dec("1.00"), Unit: "UN"},
		{LineCode: "009", ProductCode: "INT-9", Quantity: dec("4"), UnitPrice: dec("2.00"), Unit: "UN"},
	}

	result := d.ReconcileOrder(lines)
	require.Len(t, result.Committed, 1)
	require.Len(t, result.UnmatchedItems, 1)
	assert.Equal(t, orphan.ID, result.UnmatchedItems[0])
	require.Len(t, result.UnmatchedLines, 1)
	assert.Equal(t, "009", result.UnmatchedLines[0].LineCode)
}

func TestReconcileOrder_Rerun(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "10", "2.00")
	d := draftWithItems(t, item)

	lines := []OrderLine{{
		OrderNumber: "PO-77", LineCode: "001", ProductCode: "INT-1",
		Quantity: dec("12"), UnitPrice: dec("1.90"), Unit: "UN",
	}}

	first := d.ReconcileOrder(lines)
	second := d.ReconcileOrder(lines)

	require.Len(t, first.Committed, 1)
	require.Len(t, second.Committed, 1)
	assert.True(t, item.Quantity.Equal(dec("12")))
	assert.True(t, item.Total.Equal(dec("22.80")))
	assert.Empty(t, d.PendingMerges())
}

func TestLinkItem(t *testing.T) {
	item := mustItem(t, "001", "SUP-1", "UN", "5", "2.00")
	d := draftWithItems(t, item)

	t.Run("unknown item", func(t *testing.T) {
		_, err := d.LinkItem(uuid.New(), OrderLine{LineCode: "010", Unit: "UN"})
		require.Error(t, err)
	})

	t.Run("manual link follows the unit rule", func(t *testing.T) {
		proposal, err := d.LinkItem(item.ID, OrderLine{
			OrderNumber: "PO-88", LineCode: "010", ProductCode: "INT-5",
			Quantity: dec("5"), UnitPrice: dec("2.00"), Unit: "KG",
		})
		require.NoError(t, err)
		assert.Equal(t, MergeStatusPending, proposal.Status)
		assert.False(t, item.Linked)

		require.NoError(t, d.ConfirmMerge(item.ID, dec("5")))
		assert.True(t, item.Linked)
		assert.Equal(t, "010", item.OrderItemCode)
	})
}
