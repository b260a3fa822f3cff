package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderService handles order history queries
type OrderService struct {
	orderRepo trade.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// GetByID retrieves one of the buyer's orders. Another buyer's order is
// indistinguishable from a missing one.
func (s *OrderService) GetByID(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBuyer(ctx, buyerID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves the buyer's orders, newest first
func (s *OrderService) List(ctx context.Context, buyerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindByBuyer(ctx, buyerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountByBuyer(ctx, buyerID)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}
