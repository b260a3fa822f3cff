package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ProductService handles product listing operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storeRepo   catalog.StoreRepository
	reviewRepo  catalog.ReviewRepository
	userRepo    identity.UserRepository
	storage     ObjectStorageService
	urlExpiry   time.Duration
	logger      *zap.Logger
}

// NewProductService creates a new ProductService.
// The storage service is used for short-lived image URLs on the public
// product page; pass the stub implementation when storage is disabled.
func NewProductService(
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	reviewRepo catalog.ReviewRepository,
	userRepo identity.UserRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		storage:     storage,
		urlExpiry:   1 * time.Hour,
		logger:      logger,
	}
}

// Create lists a new product in the vendor's store. The product.created
// event is saved in the same transaction and later fans out to the
// vendor email and the announcement post.
func (s *ProductService) Create(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	vendor, err := s.userRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	store, err := s.storeRepo.FindByOwner(ctx, vendorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_REQUIRED", "You do not have a store assigned to your account")
		}
		return nil, err
	}

	exists, err := s.productRepo.ExistsByStoreAndName(ctx, store.ID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store already has a product with that name")
	}

	product, err := catalog.NewProduct(store.ID, req.Name, req.Description, valueobject.NewMoneyZAR(*req.Price))
	if err != nil {
		return nil, err
	}

	product.AddDomainEvent(catalog.NewProductCreatedEvent(product, store.Name, vendor.Username, vendor.Email))
	if err := s.productRepo.CreateWithEvents(ctx, product, product.GetDomainEvents()); err != nil {
		s.logger.Error("Failed to create product",
			zap.String("store_id", store.ID.String()),
			zap.Error(err))
		return nil, err
	}
	product.ClearDomainEvents()

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("store_id", store.ID.String()),
		zap.String("name", product.Name))

	response := ToProductResponse(product)
	return &response, nil
}

// Update edits a product in the vendor's store
func (s *ProductService) Update(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if name != product.Name {
			exists, err := s.productRepo.ExistsByStoreAndName(ctx, product.StoreID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Store already has a product with that name")
			}
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.UpdatePrice(valueobject.NewMoneyZAR(*req.Price)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves the public product page: the product, its store name,
// the review aggregate and a short-lived image URL
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}

	avgRating, reviewCount, err := s.reviewRepo.RatingSummaryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetailResponse{
		ProductResponse: ToProductResponse(product),
		StoreName:       store.Name,
		AverageRating:   avgRating,
		ReviewCount:     reviewCount,
	}

	// Image URL is best-effort; the key is always present
	url, _, err := s.storage.GenerateDownloadURL(ctx, product.ImageKey, s.urlExpiry)
	if err != nil {
		s.logger.Warn("Failed to generate product image URL",
			zap.String("product_id", productID.String()),
			zap.Error(err))
	} else {
		detail.ImageURL = url
	}

	return detail, nil
}

// ListByStore retrieves the products of a store with pagination
func (s *ProductService) ListByStore(ctx context.Context, storeID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, 0, err
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	products, err := s.productRepo.FindByStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountByStore(ctx, storeID)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ownedProduct loads a product and verifies the vendor's store owns it
func (s *ProductService) ownedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByOwner(ctx, vendorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_REQUIRED", "You do not have a store assigned to your account")
		}
		return nil, err
	}

	if product.StoreID != store.ID {
		return nil, shared.NewDomainError("FORBIDDEN", "Product belongs to another store")
	}

	return product, nil
}
