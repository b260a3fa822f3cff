package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// CartClearance identifies the cart a checkout is consuming.
// The version is the one observed when the cart was read; the repository
// must refuse the save if the cart has moved on since (another checkout
// or a concurrent cart edit won the race).
type CartClearance struct {
	CartID  uuid.UUID
	Version int
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForBuyer finds an order by ID owned by the given buyer
	FindByIDForBuyer(ctx context.Context, buyerID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByBuyer finds orders for a buyer, newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// SaveFromCart persists a new order and consumes the source cart in a
	// single transaction: the order and its items are inserted, all cart
	// items are deleted, the cart row's version is bumped with an optimistic
	// guard, and the supplied domain events are saved to the outbox.
	// Returns CONCURRENT_MODIFICATION if the cart version no longer matches.
	SaveFromCart(ctx context.Context, order *Order, clearance CartClearance, events []shared.DomainEvent) error

	// SaveWithLock saves an existing order with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// CountByBuyer counts orders for a buyer
	CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)

	// CountByStatus counts orders in a given status
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)

	// ExistsByBuyerAndProduct reports whether the buyer has any order
	// containing the product. Used to mark reviews as verified purchases.
	ExistsByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next unique order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
