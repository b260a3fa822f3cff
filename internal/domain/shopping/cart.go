package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// CartItem is a single product line in a buyer's cart.
// A cart holds at most one line per product; adding the same product
// again merges into the existing line.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart line
func NewCartItem(cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	now := time.Now()
	return &CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Cart is the aggregate root for a buyer's pre-order selection.
// One cart per buyer, created lazily on the first add and kept (empty)
// after checkout consumes its contents. The version field serializes
// concurrent checkouts and edits on the same cart.
type Cart struct {
	shared.BaseAggregateRoot
	BuyerID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items   []CartItem `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates a new empty cart for a buyer
func NewCart(buyerID uuid.UUID) (*Cart, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddProduct adds a product to the cart, merging into an existing line
// when the product is already present
func (c *Cart) AddProduct(productID uuid.UUID, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			return &c.Items[idx], nil
		}
	}

	item, err := NewCartItem(c.ID, productID, quantity)
	if err != nil {
		return nil, err
	}

	c.Items = append(c.Items, *item)
	c.UpdatedAt = time.Now()

	return &c.Items[len(c.Items)-1], nil
}

// SetQuantity sets the quantity of an existing line.
// A quantity of zero removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		return c.RemoveProduct(productID)
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
}

// RemoveProduct removes a product line from the cart
func (c *Cart) RemoveProduct(productID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of product lines in the cart
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalQuantity returns the total unit count across all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// GetItem returns the line for a product
func (c *Cart) GetItem(productID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// ContainsProduct returns true if the cart has a line for the product
func (c *Cart) ContainsProduct(productID uuid.UUID) bool {
	return c.GetItem(productID) != nil
}
