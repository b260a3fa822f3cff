package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByBuyer finds the buyer's cart with its items
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*Cart, error)

	// GetOrCreateByBuyer returns the buyer's cart, creating an empty one
	// on first use. Carts are created lazily and never deleted.
	GetOrCreateByBuyer(ctx context.Context, buyerID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart and reconciles its items
	Save(ctx context.Context, cart *Cart) error

	// SaveWithLock saves with optimistic locking (version check).
	// Returns CONCURRENT_MODIFICATION when the cart changed underneath.
	SaveWithLock(ctx context.Context, cart *Cart) error
}
