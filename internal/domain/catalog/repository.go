package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// Create creates a new store
	Create(ctx context.Context, store *Store) error

	// CreateWithEvents creates a new store and saves the supplied domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, store *Store, events []shared.DomainEvent) error

	// Update updates an existing store
	Update(ctx context.Context, store *Store) error

	// FindByID finds a store by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindByOwner finds the store owned by a vendor
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Store, error)

	// FindAll lists stores with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)

	// ExistsByOwner checks if a vendor already has a store
	ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)

	// Count returns the total number of stores
	Count(ctx context.Context) (int64, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// CreateWithEvents creates a new product and saves the supplied domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, product *Product, events []shared.DomainEvent) error

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByStore lists products in a store
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)

	// ExistsByStoreAndName checks if the store already lists a product
	// with the given name
	ExistsByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (bool, error)

	// CountByStore counts products in a store
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *Review) error

	// FindByProduct lists reviews for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// ExistsByBuyerAndProduct checks if the buyer already reviewed the product
	ExistsByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)

	// RatingSummaryByProduct returns the average rating and review count
	// for a product
	RatingSummaryByProduct(ctx context.Context, productID uuid.UUID) (float64, int64, error)
}
