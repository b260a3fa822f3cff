package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shopping"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart by its ID with items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.Cart, error) {
	var cart shopping.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindByBuyer finds the buyer's cart with items
func (r *GormCartRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*shopping.Cart, error) {
	var cart shopping.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateByBuyer returns the buyer's cart, creating an empty one on first
// use. Two requests racing on first use both hit the buyer_id unique index;
// the loser re-reads the winner's cart.
func (r *GormCartRepository) GetOrCreateByBuyer(ctx context.Context, buyerID uuid.UUID) (*shopping.Cart, error) {
	cart, err := r.FindByBuyer(ctx, buyerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	cart, err = shopping.NewCart(buyerID)
	if err != nil {
		return nil, err
	}

	if createErr := r.db.WithContext(ctx).Create(cart).Error; createErr != nil {
		// Lost the creation race; the other request's cart is there now
		if existing, findErr := r.FindByBuyer(ctx, buyerID); findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return cart, nil
}

// Save creates or updates a cart and reconciles its items
func (r *GormCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save the cart
		if err := tx.Save(cart).Error; err != nil {
			return err
		}

		// Handle items: delete removed items and save/update existing ones
		if cart.ID != uuid.Nil {
			currentItemIDs := make([]uuid.UUID, len(cart.Items))
			for i, item := range cart.Items {
				currentItemIDs[i] = item.ID
			}

			// Delete items not in the current list
			if len(currentItemIDs) > 0 {
				if err := tx.Where("cart_id = ? AND id NOT IN ?", cart.ID, currentItemIDs).
					Delete(&shopping.CartItem{}).Error; err != nil {
					return err
				}
			} else {
				// Delete all items if no items remain
				if err := tx.Where("cart_id = ?", cart.ID).
					Delete(&shopping.CartItem{}).Error; err != nil {
					return err
				}
			}

			// Save/update remaining items
			for i := range cart.Items {
				cart.Items[i].CartID = cart.ID
				if err := tx.Save(&cart.Items[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCartRepository) SaveWithLock(ctx context.Context, cart *shopping.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		if err := tx.Model(&shopping.Cart{}).
			Where("id = ?", cart.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// Check version matches
		if currentVersion != cart.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The cart has been modified by another request")
		}

		// Increment version
		cart.Version++
		cart.UpdatedAt = time.Now()

		// Update cart with version check
		result := tx.Model(&shopping.Cart{}).
			Where("id = ? AND version = ?", cart.ID, currentVersion).
			Updates(map[string]interface{}{
				"version":    cart.Version,
				"updated_at": cart.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The cart has been modified by another request")
		}

		// Handle items
		currentItemIDs := make([]uuid.UUID, len(cart.Items))
		for i, item := range cart.Items {
			currentItemIDs[i] = item.ID
		}

		// Delete items not in the current list
		if len(currentItemIDs) > 0 {
			if err := tx.Where("cart_id = ? AND id NOT IN ?", cart.ID, currentItemIDs).
				Delete(&shopping.CartItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("cart_id = ?", cart.ID).
				Delete(&shopping.CartItem{}).Error; err != nil {
				return err
			}
		}

		// Save/update remaining items
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			if err := tx.Save(&cart.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Ensure GormCartRepository implements CartRepository
var _ shopping.CartRepository = (*GormCartRepository)(nil)
