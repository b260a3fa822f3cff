package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appcatalog "github.com/swiftbasket/backend/internal/application/catalog"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shared/valueobject"
	"github.com/swiftbasket/backend/internal/infrastructure/auth"
	"github.com/swiftbasket/backend/internal/infrastructure/storage"
	"github.com/swiftbasket/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func createTestProductForHandler(t *testing.T, storeID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, "Test Product", "A test product",
		valueobject.NewMoneyZARFromFloat(99.99))
	require.NoError(t, err)
	return product
}

func newProductHandlerForTest(
	productRepo *MockProductRepository,
	storeRepo *MockStoreRepository,
	reviewRepo *MockReviewRepository,
	userRepo *MockUserRepository,
) *ProductHandler {
	logger := zap.NewNop()
	stub := storage.NewStubObjectStorage()
	productService := appcatalog.NewProductService(productRepo, storeRepo, reviewRepo, userRepo, stub, logger)
	imageService := appcatalog.NewProductImageService(productRepo, storeRepo, stub, logger)
	return NewProductHandler(productService, imageService)
}

func setupProductRouter(handler *ProductHandler, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Public product page
	r.GET("/api/product/:id", handler.GetByID)

	// Vendor routes
	vendor := r.Group("/api")
	vendor.Use(middleware.JWTAuthMiddleware(jwtService), middleware.RequireVendor(nil))
	{
		vendor.POST("/create/product", handler.Create)
		vendor.PUT("/product/:id", handler.Update)
		vendor.POST("/product/:id/image", handler.UploadImage)
	}

	return r
}

func TestProductHandler_Create_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)

	userRepo.On("FindByID", mock.Anything, vendor.ID).Return(vendor, nil)
	storeRepo.On("FindByOwner", mock.Anything, vendor.ID).Return(store, nil)
	productRepo.On("ExistsByStoreAndName", mock.Anything, store.ID, "Spice Rack").Return(false, nil)
	productRepo.On("CreateWithEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	price := decimal.NewFromFloat(149.50)
	body, _ := json.Marshal(appcatalog.CreateProductRequest{
		Name:        "Spice Rack",
		Description: "Hand carved",
		Price:       &price,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/create/product", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Spice Rack", data["name"])
	assert.Equal(t, store.ID.String(), data["store_id"])

	productRepo.AssertExpectations(t)
}

func TestProductHandler_Create_WithoutStore(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	userRepo.On("FindByID", mock.Anything, vendor.ID).Return(vendor, nil)
	storeRepo.On("FindByOwner", mock.Anything, vendor.ID).Return(nil, shared.ErrNotFound)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	price := decimal.NewFromFloat(10)
	body, _ := json.Marshal(appcatalog.CreateProductRequest{
		Name:  "Orphan Product",
		Price: &price,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/create/product", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// STORE_REQUIRED is a business rule violation
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "ERR_BUSINESS_RULE", errInfo["code"])
}

func TestProductHandler_Update_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)
	product := createTestProductForHandler(t, store.ID)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	storeRepo.On("FindByOwner", mock.Anything, vendor.ID).Return(store, nil)
	productRepo.On("Update", mock.Anything, product).Return(nil)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	newPrice := decimal.NewFromFloat(79.99)
	body, _ := json.Marshal(appcatalog.UpdateProductRequest{Price: &newPrice})
	req := httptest.NewRequest(http.MethodPut, "/api/product/"+product.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "79.99", data["price"])
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Update_OtherVendorsProduct(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)
	// Product listed by a different store
	otherProduct := createTestProductForHandler(t, uuid.New())

	productRepo.On("FindByID", mock.Anything, otherProduct.ID).Return(otherProduct, nil)
	storeRepo.On("FindByOwner", mock.Anything, vendor.ID).Return(store, nil)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	newName := "Hijacked"
	body, _ := json.Marshal(appcatalog.UpdateProductRequest{Name: &newName})
	req := httptest.NewRequest(http.MethodPut, "/api/product/"+otherProduct.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	reviewRepo := new(MockReviewRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)
	product := createTestProductForHandler(t, store.ID)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	storeRepo.On("FindByID", mock.Anything, store.ID).Return(store, nil)
	reviewRepo.On("RatingSummaryByProduct", mock.Anything, product.ID).Return(4.5, int64(12), nil)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, reviewRepo, new(MockUserRepository))
	router := setupProductRouter(handler, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/product/"+product.ID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, product.ID.String(), data["id"])
	assert.Equal(t, "Test Store", data["store_name"])
	assert.Equal(t, 4.5, data["average_rating"])
	assert.Equal(t, float64(12), data["review_count"])
}

func TestProductHandler_UploadImage_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)
	product := createTestProductForHandler(t, store.ID)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	storeRepo.On("FindByOwner", mock.Anything, vendor.ID).Return(store, nil)
	productRepo.On("Update", mock.Anything, product).Return(nil)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="photo.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/product/"+product.ID.String()+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, product.ID.String(), data["product_id"])
	assert.NotEmpty(t, data["image_key"])
	productRepo.AssertExpectations(t)
}

func TestProductHandler_UploadImage_DisallowedContentType(t *testing.T) {
	productRepo := new(MockProductRepository)
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)

	vendor := createTestVendorForHandler(t)
	store := createTestStoreForHandler(t, vendor.ID)
	product := createTestProductForHandler(t, store.ID)

	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(productRepo, storeRepo, new(MockReviewRepository), userRepo)
	router := setupProductRouter(handler, jwtService)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="payload.svg"`},
		"Content-Type":        {"image/svg+xml"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("<svg onload=alert(1)/>"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/product/"+product.ID.String()+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "ERR_UNSUPPORTED_MEDIA", errInfo["code"])
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductHandler_UploadImage_MissingFile(t *testing.T) {
	jwtService := auth.NewJWTService(testJWTConfig())
	handler := newProductHandlerForTest(new(MockProductRepository), new(MockStoreRepository), new(MockReviewRepository), new(MockUserRepository))
	router := setupProductRouter(handler, jwtService)

	vendor := createTestVendorForHandler(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/product/"+uuid.NewString()+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+vendorToken(t, jwtService, vendor))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
