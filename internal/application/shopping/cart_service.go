package shopping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
	"github.com/swiftbasket/backend/internal/domain/shopping"
	"go.uber.org/zap"
)

// CartService handles the buyer's cart operations
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo shopping.CartRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart retrieves the buyer's cart, creating an empty one on first use
func (s *CartService) GetCart(ctx context.Context, buyerID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreateByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// AddItem adds a product to the buyer's cart, merging quantities when the
// product is already in it
func (s *CartService) AddItem(ctx context.Context, buyerID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if _, err := cart.AddProduct(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}

	// The version check rejects a cart that a concurrent checkout consumed
	if err := s.cartRepo.SaveWithLock(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("Cart item added",
		zap.String("buyer_id", buyerID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", req.Quantity))

	return s.toCartResponse(ctx, cart)
}

// UpdateItem sets a cart line's quantity. Zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, buyerID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if err := cart.SetQuantity(productID, *req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.SaveWithLock(ctx, cart); err != nil {
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// RemoveItem removes a product line from the buyer's cart
func (s *CartService) RemoveItem(ctx context.Context, buyerID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.loadCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveProduct(productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.SaveWithLock(ctx, cart); err != nil {
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// loadCart finds the buyer's existing cart for line edits. A buyer with
// no cart row has no lines, so edits report the line as missing.
func (s *CartService) loadCart(ctx context.Context, buyerID uuid.UUID) (*shopping.Cart, error) {
	cart, err := s.cartRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
		}
		return nil, err
	}
	return cart, nil
}

// toCartResponse hydrates cart lines with live product names and prices
func (s *CartService) toCartResponse(ctx context.Context, cart *shopping.Cart) (*CartResponse, error) {
	response := &CartResponse{
		ID:         cart.ID,
		Items:      make([]CartItemResponse, 0, len(cart.Items)),
		TotalPrice: decimal.Zero,
	}
	if cart.IsEmpty() {
		return response, nil
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

	total := valueobject.ZeroZAR()
	for _, item := range cart.Items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			// A line whose product vanished is skipped on display;
			// checkout still rejects it explicitly
			s.logger.Warn("Cart line references missing product",
				zap.String("cart_id", cart.ID.String()),
				zap.String("product_id", item.ProductID.String()))
			continue
		}

		subtotal := product.GetPriceMoney().MultiplyByInt(int64(item.Quantity))
		response.Items = append(response.Items, CartItemResponse{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal.Amount(),
		})
		total = total.MustAdd(subtotal)
	}

	response.TotalPrice = total.Amount()
	response.ItemCount = len(response.Items)
	return response, nil
}
