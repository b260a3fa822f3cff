package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ReviewService handles product review operations
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo catalog.ReviewRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create posts a review for a product. Each buyer reviews a product at
// most once; Verified is set when the buyer's order history contains
// the product.
func (s *ReviewService) Create(ctx context.Context, buyerID, productID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByBuyerAndProduct(ctx, buyerID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "You have already reviewed this product")
	}

	verified, err := s.orderRepo.ExistsByBuyerAndProduct(ctx, buyerID, productID)
	if err != nil {
		return nil, err
	}

	review, err := catalog.NewReview(productID, buyerID, buyer.Username, req.Rating, req.Comment, verified)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review",
			zap.String("product_id", productID.String()),
			zap.String("buyer_id", buyerID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", review.Rating),
		zap.Bool("verified", review.Verified))

	response := ToReviewResponse(review)
	return &response, nil
}

// ListByProduct retrieves the reviews of a product, newest first
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	_, total, err := s.reviewRepo.RatingSummaryByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToReviewResponses(reviews), total, nil
}
