package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllowedImageContentTypes is the whitelist for product image uploads.
// SVG is excluded: it can carry scripts and inline event handlers.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or the development stub).
type ObjectStorageService interface {
	// Upload stores an object under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ProductImageServiceConfig holds configuration for the image service
type ProductImageServiceConfig struct {
	// MaxImageSize is the largest accepted upload in bytes
	MaxImageSize int64
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
}

// DefaultProductImageServiceConfig returns the default configuration
func DefaultProductImageServiceConfig() ProductImageServiceConfig {
	return ProductImageServiceConfig{
		MaxImageSize:      5 << 20, // 5 MiB
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ProductImageService handles product image uploads
type ProductImageService struct {
	productRepo    catalog.ProductRepository
	storeRepo      catalog.StoreRepository
	storageService ObjectStorageService
	config         ProductImageServiceConfig
	logger         *zap.Logger
}

// NewProductImageService creates a new ProductImageService
func NewProductImageService(
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	storageService ObjectStorageService,
	logger *zap.Logger,
) *ProductImageService {
	return &ProductImageService{
		productRepo:    productRepo,
		storeRepo:      storeRepo,
		storageService: storageService,
		config:         DefaultProductImageServiceConfig(),
		logger:         logger,
	}
}

// SetConfig sets the service configuration
func (s *ProductImageService) SetConfig(config ProductImageServiceConfig) {
	s.config = config
}

// Upload replaces a product's image. The object is written first; the
// key lands on the product only after the upload succeeded, and the
// previous custom image is removed best-effort afterwards.
func (s *ProductImageService) Upload(
	ctx context.Context,
	vendorID, productID uuid.UUID,
	fileName, contentType string,
	data []byte,
) (*ImageUploadResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}
	if int64(len(data)) > s.config.MaxImageSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Image may not exceed %d bytes", s.config.MaxImageSize))
	}
	if !AllowedImageContentTypes[strings.ToLower(contentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: JPEG, PNG, GIF, and WebP.", contentType))
	}

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

	storageKey := generateImageKey(productID, fileName)
	if err := s.storageService.Upload(ctx, storageKey, data, contentType); err != nil {
		s.logger.Error("Failed to upload product image",
			zap.String("product_id", productID.String()),
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store uploaded image")
	}

	previousKey := product.ImageKey
	hadCustomImage := product.HasCustomImage()

	if err := product.SetImageKey(storageKey); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		// Orphaned object; remove it so the bucket does not accumulate
		if delErr := s.storageService.DeleteObject(ctx, storageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned image object",
				zap.String("storage_key", storageKey),
				zap.Error(delErr))
		}
		return nil, err
	}

	if hadCustomImage {
		if err := s.storageService.DeleteObject(ctx, previousKey); err != nil {
			s.logger.Warn("Failed to remove replaced image object",
				zap.String("storage_key", previousKey),
				zap.Error(err))
		}
	}

	s.logger.Info("Product image uploaded",
		zap.String("product_id", productID.String()),
		zap.String("storage_key", storageKey),
		zap.Int("size_bytes", len(data)))

	response := &ImageUploadResponse{
		ProductID: productID,
		ImageKey:  storageKey,
	}

	url, _, err := s.storageService.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to generate image download URL",
			zap.String("storage_key", storageKey),
			zap.Error(err))
	} else {
		response.ImageURL = url
	}

	return response, nil
}

// generateImageKey generates a unique storage key for a product image.
// Format: products/{productID}/images/{uniqueID}{ext}
func generateImageKey(productID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	uniqueID := uuid.New().String()
	return fmt.Sprintf("products/%s/images/%s%s", productID.String(), uniqueID, ext)
}
