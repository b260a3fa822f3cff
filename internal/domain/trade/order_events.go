package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced = "order.placed"
)

// OrderPlacedItem carries the line-item snapshot inside the order.placed
// payload so downstream handlers never have to re-query the catalog.
type OrderPlacedItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	StoreName   string          `json:"store_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderPlacedEvent is raised when a checkout commits.
// It is the trigger for the invoice email and the sale announcement;
// the buyer contact fields exist for the email channel and must never
// leak into public posts.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID         `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	BuyerID       uuid.UUID         `json:"buyer_id"`
	BuyerUsername string            `json:"buyer_username"`
	BuyerEmail    string            `json:"buyer_email"`
	Items         []OrderPlacedItem `json:"items"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent from a placed order
func NewOrderPlacedEvent(order *Order, buyerUsername, buyerEmail string) *OrderPlacedEvent {
	items := make([]OrderPlacedItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderPlacedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			StoreName:   item.StoreName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}

	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		BuyerUsername:   buyerUsername,
		BuyerEmail:      buyerEmail,
		Items:           items,
		TotalPrice:      order.TotalPrice,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}
