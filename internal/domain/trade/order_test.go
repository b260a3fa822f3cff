package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	order, err := NewOrder("SB-2026-00001", uuid.New())
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *Order, productName string, price float64, quantity int) *OrderItem {
	item, err := order.AddItem(uuid.New(), productName, "Test Store", valueobject.NewMoneyZARFromFloat(price), quantity)
	require.NoError(t, err)
	return item
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPendingPayment, true},
		{OrderStatusPaid, true},
		{OrderStatusCancelled, true},
		{OrderStatus("shipped"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From pending_payment
		{OrderStatusPendingPayment, OrderStatusPaid, true},
		{OrderStatusPendingPayment, OrderStatusCancelled, true},
		{OrderStatusPendingPayment, OrderStatusPendingPayment, false},
		// From paid (terminal)
		{OrderStatusPaid, OrderStatusPendingPayment, false},
		{OrderStatusPaid, OrderStatusCancelled, false},
		// From cancelled (terminal)
		{OrderStatusCancelled, OrderStatusPendingPayment, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPendingPayment.IsTerminal())
	assert.True(t, OrderStatusPaid.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	buyerID := uuid.New()

	t.Run("creates order with valid inputs", func(t *testing.T) {
		order, err := NewOrder("SB-2026-00001", buyerID)
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, "SB-2026-00001", order.OrderNumber)
		assert.Equal(t, buyerID, order.BuyerID)
		assert.Equal(t, OrderStatusPendingPayment, order.Status)
		assert.Empty(t, order.Items)
		assert.True(t, order.TotalPrice.IsZero())
		assert.Nil(t, order.PaidAt)
		assert.Nil(t, order.CancelledAt)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, 1, order.GetVersion())
	})

	t.Run("fails with empty order number", func(t *testing.T) {
		order, err := NewOrder("", buyerID)
		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with nil buyer", func(t *testing.T) {
		order, err := NewOrder("SB-2026-00002", uuid.Nil)
		assert.Error(t, err)
		assert.Nil(t, order)
	})
}

// ============================================
// AddItem Tests
// ============================================

func TestOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates total", func(t *testing.T) {
		order := createTestOrder(t)

		item := addTestItem(t, order, "Widget", 10.00, 2)
		assert.Equal(t, "Widget", item.ProductName)
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromFloat(20.00)))

		addTestItem(t, order, "Gadget", 5.50, 1)
		assert.Equal(t, 2, order.ItemCount())
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromFloat(25.50)), "expected 25.50, got %s", order.TotalPrice)
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := createTestOrder(t)
		productID := uuid.New()

		_, err := order.AddItem(productID, "Widget", "Test Store", valueobject.NewMoneyZARFromFloat(10.00), 1)
		require.NoError(t, err)

		_, err = order.AddItem(productID, "Widget", "Test Store", valueobject.NewMoneyZARFromFloat(10.00), 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DUPLICATE_PRODUCT")
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Widget", "Test Store", valueobject.NewMoneyZARFromFloat(10.00), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Widget", "Test Store", valueobject.NewMoneyZARFromFloat(-1.00), 1)
		assert.Error(t, err)
	})

	t.Run("rejects item on paid order", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Widget", 10.00, 1)
		require.NoError(t, order.MarkPaid())

		_, err := order.AddItem(uuid.New(), "Gadget", "Test Store", valueobject.NewMoneyZARFromFloat(5.00), 1)
		assert.Error(t, err)
	})
}

// ============================================
// Status Transition Tests
// ============================================

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("transitions pending to paid", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Widget", 10.00, 1)

		err := order.MarkPaid()
		require.NoError(t, err)
		assert.Equal(t, OrderStatusPaid, order.Status)
		assert.NotNil(t, order.PaidAt)
	})

	t.Run("rejects paying a cancelled order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Cancel())

		err := order.MarkPaid()
		assert.Error(t, err)
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("rejects double payment", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.MarkPaid())
		assert.Error(t, order.MarkPaid())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("transitions pending to cancelled", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.Cancel()
		require.NoError(t, err)
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("rejects cancelling a paid order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.MarkPaid())

		err := order.Cancel()
		assert.Error(t, err)
		assert.Equal(t, OrderStatusPaid, order.Status)
	})
}

// ============================================
// Snapshot Semantics Tests
// ============================================

func TestOrderItem_Snapshot(t *testing.T) {
	t.Run("subtotal is unit price times quantity", func(t *testing.T) {
		order := createTestOrder(t)
		item := addTestItem(t, order, "Widget", 10.00, 3)

		assert.True(t, item.Subtotal().Equal(decimal.NewFromFloat(30.00)))
	})

	t.Run("unit price is frozen at add time", func(t *testing.T) {
		order := createTestOrder(t)
		price := valueobject.NewMoneyZARFromFloat(10.00)
		item, err := order.AddItem(uuid.New(), "Widget", "Test Store", price, 2)
		require.NoError(t, err)

		// A later price change in the catalog must not reach the snapshot
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromFloat(20.00)))
	})

	t.Run("checkout example totals 25.50", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "P1", 10.00, 2)
		addTestItem(t, order, "P2", 5.50, 1)

		assert.Equal(t, 2, order.ItemCount())
		assert.Equal(t, 3, order.TotalQuantity())
		assert.Equal(t, "25.50", order.TotalPrice.StringFixed(2))
	})
}

// ============================================
// OrderPlacedEvent Tests
// ============================================

func TestNewOrderPlacedEvent(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Widget", 10.00, 2)
	addTestItem(t, order, "Gadget", 5.50, 1)

	event := NewOrderPlacedEvent(order, "thandi", "thandi@example.com")

	assert.Equal(t, EventTypeOrderPlaced, event.EventType())
	assert.Equal(t, AggregateTypeOrder, event.AggregateType())
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	assert.Equal(t, order.BuyerID, event.BuyerID)
	assert.Equal(t, "thandi", event.BuyerUsername)
	assert.Equal(t, "thandi@example.com", event.BuyerEmail)
	require.Len(t, event.Items, 2)
	assert.Equal(t, "Widget", event.Items[0].ProductName)
	assert.Equal(t, "Test Store", event.Items[0].StoreName)
	assert.True(t, event.Items[0].Subtotal.Equal(decimal.NewFromFloat(20.00)))
	assert.True(t, event.TotalPrice.Equal(decimal.NewFromFloat(25.50)))
}

func TestOrder_Queries(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Widget", 10.00, 1)

	assert.True(t, order.ContainsProduct(item.ProductID))
	assert.False(t, order.ContainsProduct(uuid.New()))

	found := order.GetItemByProduct(item.ProductID)
	require.NotNil(t, found)
	assert.Equal(t, item.ID, found.ID)

	assert.True(t, order.IsPendingPayment())
	assert.False(t, order.IsPaid())
	assert.False(t, order.IsCancelled())
}
