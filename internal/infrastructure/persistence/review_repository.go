package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create creates a new review
func (r *GormReviewRepository) Create(ctx context.Context, review *catalog.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByProduct finds all reviews for a product, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, error) {
	var reviews []catalog.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Review{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ExistsByBuyerAndProduct checks if the buyer already reviewed the product
func (r *GormReviewRepository) ExistsByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Review{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RatingSummaryByProduct calculates the average rating and review count for a product
func (r *GormReviewRepository) RatingSummaryByProduct(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	var result struct {
		Average float64
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Review{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return result.Average, result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ReviewSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormReviewRepository implements ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
