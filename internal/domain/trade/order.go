package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the payment status of an order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// OrderItem is a line-item snapshot taken at checkout time.
// It records the product name, store name and unit price as they were
// when the order was placed, so later catalog edits never alter history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	StoreName   string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"` // Price per unit at purchase time
	Quantity    int             `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item snapshot
func NewOrderItem(orderID, productID uuid.UUID, productName, storeName string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		StoreName:   storeName,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Subtotal returns unit price multiplied by quantity
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// GetUnitPriceMoney returns the unit price as Money value object
func (i *OrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyZAR(i.UnitPrice)
}

// GetSubtotalMoney returns the line subtotal as Money value object
func (i *OrderItem) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyZAR(i.Subtotal())
}

// Order is the aggregate root for a completed checkout.
// It is created once from a cart's contents and is immutable afterwards
// except for the payment status field.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BuyerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // Sum of unit price * quantity across items
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending_payment'"`
	PaidAt      *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in pending_payment status
func NewOrder(orderNumber string, buyerID uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		BuyerID:           buyerID,
		Items:             make([]OrderItem, 0),
		TotalPrice:        decimal.Zero,
		Status:            OrderStatusPendingPayment,
	}, nil
}

// AddItem snapshots a product line into the order.
// Only allowed while the order is still pending payment; once an order
// is paid or cancelled its contents are frozen.
func (o *Order) AddItem(productID uuid.UUID, productName, storeName string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if o.Status != OrderStatusPendingPayment {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a finalized order")
	}

	// One line per product; cart lines are already merged per product
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, storeName, unitPrice, quantity)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// MarkPaid transitions the order from pending_payment to paid
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order as paid in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	return nil
}

// Cancel transitions the order from pending_payment to cancelled
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	return nil
}

// recalculateTotal recalculates the order total from its items
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalPrice = total
}

// ItemCount returns the number of line items in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the total unit count across all items
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GetTotalPriceMoney returns the order total as Money
func (o *Order) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyZAR(o.TotalPrice)
}

// IsPendingPayment returns true if the order awaits payment
func (o *Order) IsPendingPayment() bool {
	return o.Status == OrderStatusPendingPayment
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ContainsProduct returns true if the order has a line for the product
func (o *Order) ContainsProduct(productID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// GetItemByProduct returns the line item for a product
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
