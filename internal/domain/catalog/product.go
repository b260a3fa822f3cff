package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
)

// DefaultImageKey is the object-storage key served for products without
// an uploaded image
const DefaultImageKey = "products/default.png"

// Product represents a listing in a vendor's store.
// Product names are unique within a store; the same name may appear in
// different stores.
type Product struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_store_name,priority:1"`
	Name        string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_store_name,priority:2"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ImageKey    string          `gorm:"type:varchar(500);not null;default:'products/default.png'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product listing
func NewProduct(storeID uuid.UUID, name, description string, price valueobject.Money) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Name:              strings.TrimSpace(name),
		Description:       description,
		Price:             price.Amount(),
		ImageKey:          DefaultImageKey,
	}, nil
}

// Update updates the product's display information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdatePrice changes the live price.
// Orders placed earlier keep the unit price snapshotted at checkout.
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageKey points the product at an uploaded image object
func (p *Product) SetImageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_IMAGE_KEY", "Image key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_KEY", "Image key cannot exceed 500 characters")
	}

	p.ImageKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// HasCustomImage returns true if the product has an uploaded image
func (p *Product) HasCustomImage() bool {
	return p.ImageKey != DefaultImageKey
}

// GetPriceMoney returns the live price as Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyZAR(p.Price)
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
