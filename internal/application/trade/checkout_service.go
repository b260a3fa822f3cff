package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shopping"
	"github.com/swiftbasket/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// maxCheckoutRetries bounds how often a checkout is retried when a
// concurrent cart edit invalidates the version it read
const maxCheckoutRetries = 3

// CheckoutService converts a buyer's cart into an order
type CheckoutService struct {
	orderRepo   trade.OrderRepository
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	storeRepo   catalog.StoreRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orderRepo trade.OrderRepository,
	cartRepo shopping.CartRepository,
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Checkout converts the buyer's cart into an order. The order rows, the
// cart clearing and the order.placed outbox event commit in one
// transaction; a cart that moves underneath the read is re-read and the
// whole conversion retried a bounded number of times.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID uuid.UUID) (*OrderResponse, error) {
	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	for attempt := 1; attempt <= maxCheckoutRetries; attempt++ {
		order, err := s.placeOrder(ctx, buyer)
		if err == nil {
			s.logger.Info("Checkout completed",
				zap.String("order_number", order.OrderNumber),
				zap.String("buyer_id", buyerID.String()),
				zap.String("total_price", order.TotalPrice.String()),
				zap.Int("attempt", attempt))

			response := ToOrderResponse(order)
			return &response, nil
		}

		if isConcurrentModification(err) {
			s.logger.Warn("Cart changed during checkout, retrying",
				zap.String("buyer_id", buyerID.String()),
				zap.Int("attempt", attempt))
			continue
		}

		return nil, err
	}

	return nil, shared.NewDomainError("CONCURRENT_MODIFICATION",
		"The cart kept changing during checkout. Please try again.")
}

// placeOrder performs one conversion attempt against a fresh cart read
func (s *CheckoutService) placeOrder(ctx context.Context, buyer *identity.User) (*trade.Order, error) {
	cart, err := s.cartRepo.FindByBuyer(ctx, buyer.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		productsByID[products[idx].ID] = &products[idx]
	}

	// Store names are snapshotted alongside the product names; a store
	// usually covers several lines, so look each one up once
	storeNames := make(map[uuid.UUID]string)

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(orderNumber, buyer.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				fmt.Sprintf("A product in the cart is no longer available (%s)", item.ProductID))
		}

		storeName, ok := storeNames[product.StoreID]
		if !ok {
			store, err := s.storeRepo.FindByID(ctx, product.StoreID)
			if err != nil {
				return nil, err
			}
			storeName = store.Name
			storeNames[product.StoreID] = storeName
		}

		if _, err := order.AddItem(product.ID, product.Name, storeName, product.GetPriceMoney(), item.Quantity); err != nil {
			return nil, err
		}
	}

	order.AddDomainEvent(trade.NewOrderPlacedEvent(order, buyer.Username, buyer.Email))

	clearance := trade.CartClearance{CartID: cart.ID, Version: cart.Version}
	if err := s.orderRepo.SaveFromCart(ctx, order, clearance, order.GetDomainEvents()); err != nil {
		return nil, err
	}
	order.ClearDomainEvents()

	return order, nil
}

// isConcurrentModification reports whether the error is the optimistic
// lock rejection raised when the cart version moved on
func isConcurrentModification(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "CONCURRENT_MODIFICATION"
}
