package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStore   = "Store"
	AggregateTypeProduct = "Product"
)

// Event type constants
const (
	EventTypeStoreCreated   = "store.created"
	EventTypeProductCreated = "product.created"
)

// StoreCreatedEvent is raised when a vendor opens their store.
// It feeds the vendor confirmation email and the public launch post,
// so it carries the vendor's contact details alongside the store data.
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID        uuid.UUID `json:"store_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	VendorUsername string    `json:"vendor_username"`
	VendorEmail    string    `json:"vendor_email"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(store *Store, vendorUsername, vendorEmail string) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, store.ID),
		StoreID:         store.ID,
		OwnerID:         store.OwnerID,
		Name:            store.Name,
		Description:     store.Description,
		VendorUsername:  vendorUsername,
		VendorEmail:     vendorEmail,
	}
}

// EventType returns the event type name
func (e *StoreCreatedEvent) EventType() string {
	return EventTypeStoreCreated
}

// ProductCreatedEvent is raised when a vendor lists a product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	StoreID        uuid.UUID       `json:"store_id"`
	StoreName      string          `json:"store_name"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	VendorUsername string          `json:"vendor_username"`
	VendorEmail    string          `json:"vendor_email"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product, storeName, vendorUsername, vendorEmail string) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		StoreID:         product.StoreID,
		StoreName:       storeName,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		VendorUsername:  vendorUsername,
		VendorEmail:     vendorEmail,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}
