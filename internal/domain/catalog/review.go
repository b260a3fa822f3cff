package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// Rating bounds for reviews
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's rating of a product. Each buyer can review a
// product once; Verified records whether the buyer actually bought it.
type Review struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_buyer,priority:1"`
	BuyerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_buyer,priority:2"`
	BuyerUsername string    `gorm:"type:varchar(100);not null"`
	Rating        int       `gorm:"not null"`
	Comment       string    `gorm:"type:text"`
	Verified      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new product review
func NewReview(productID, buyerID uuid.UUID, buyerUsername string, rating int, comment string, verified bool) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if buyerUsername == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer username cannot be empty")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BuyerID:           buyerID,
		BuyerUsername:     buyerUsername,
		Rating:            rating,
		Comment:           strings.TrimSpace(comment),
		Verified:          verified,
	}, nil
}

// UpdateComment replaces the review text
func (r *Review) UpdateComment(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
