package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// Store represents a vendor's storefront.
// Each vendor owns exactly one store; the unique index on OwnerID
// enforces it at the storage layer as well.
type Store struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store for a vendor
func NewStore(ownerID uuid.UUID, name, description string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(name),
		Description:       description,
	}, nil
}

// Update updates the store's display metadata
func (s *Store) Update(name, description string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

func validateStoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}
