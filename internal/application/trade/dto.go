package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/trade"
)

// OrderItemResponse is a snapshotted order line
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	StoreName   string          `json:"store_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	OrderNumber string              `json:"order_number"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// OrderListFilter represents filter options for order queries
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ToOrderResponse converts a domain order to an OrderResponse
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			StoreName:   item.StoreName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.String(),
		Items:       items,
		TotalPrice:  order.TotalPrice,
		PaidAt:      order.PaidAt,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to OrderResponses
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	return responses
}
