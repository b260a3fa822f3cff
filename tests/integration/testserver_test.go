// Package integration provides end-to-end tests for the SwiftBasket backend.
// Tests run the real HTTP stack (handlers, middleware, services, GORM
// repositories) against an in-memory SQLite database, with external
// channels (mail, social, object storage) replaced by stubs.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/swiftbasket/backend/internal/application/catalog"
	identityapp "github.com/swiftbasket/backend/internal/application/identity"
	shoppingapp "github.com/swiftbasket/backend/internal/application/shopping"
	tradeapp "github.com/swiftbasket/backend/internal/application/trade"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/shopping"
	"github.com/swiftbasket/backend/internal/domain/trade"
	"github.com/swiftbasket/backend/internal/infrastructure/auth"
	"github.com/swiftbasket/backend/internal/infrastructure/config"
	"github.com/swiftbasket/backend/internal/infrastructure/event"
	"github.com/swiftbasket/backend/internal/infrastructure/persistence"
	"github.com/swiftbasket/backend/internal/infrastructure/storage"
	"github.com/swiftbasket/backend/internal/interfaces/http/handler"
	"github.com/swiftbasket/backend/internal/interfaces/http/middleware"
	"github.com/swiftbasket/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer bundles the wired application for a single test.
type testServer struct {
	Engine     *gin.Engine
	DB         *gorm.DB
	JWT        *auth.JWTService
	OutboxRepo *event.GormOutboxRepository
	Serializer *event.EventSerializer
}

// newTestDB opens a fresh in-memory SQLite database and migrates the
// full schema. A single connection is enforced so every query sees the
// same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&identity.User{},
		&identity.ResetToken{},
		&catalog.Store{},
		&catalog.Product{},
		&catalog.Review{},
		&shopping.Cart{},
		&shopping.CartItem{},
		&trade.Order{},
		&trade.OrderItem{},
		&shared.OutboxEntry{},
	)
	require.NoError(t, err, "Failed to migrate schema")

	return db
}

// newTestServer wires the complete application the way cmd/server does,
// minus the background machinery (outbox processor, schedulers) and
// with stubbed external channels.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zap.NewNop()
	db := newTestDB(t)

	userRepo := persistence.NewGormUserRepository(db)
	resetTokenRepo := persistence.NewGormResetTokenRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	outboxRepo := event.NewGormOutboxRepository(db)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)

	userRepo.SetOutboxEventSaver(outboxPublisher)
	resetTokenRepo.SetOutboxEventSaver(outboxPublisher)
	storeRepo.SetOutboxEventSaver(outboxPublisher)
	productRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-32-chars-long!!",
		RefreshSecret:          "integration-refresh-32-chars-long!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "swiftbasket-test",
		MaxRefreshCount:        10,
	})
	tokenBlacklist := auth.NewInMemoryTokenBlacklist()
	objectStorage := storage.NewStubObjectStorage()

	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	passwordResetService := identityapp.NewPasswordResetService(userRepo, resetTokenRepo, log)
	storeService := catalogapp.NewStoreService(storeRepo, userRepo, log)
	productService := catalogapp.NewProductService(productRepo, storeRepo, reviewRepo, userRepo, objectStorage, log)
	productImageService := catalogapp.NewProductImageService(productRepo, storeRepo, objectStorage, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, orderRepo, userRepo, log)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := tradeapp.NewCheckoutService(orderRepo, cartRepo, productRepo, storeRepo, userRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)

	authHandler := handler.NewAuthHandler(authService, passwordResetService)
	storeHandler := handler.NewStoreHandler(storeService, productService)
	productHandler := handler.NewProductHandler(productService, productImageService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())

	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
	})

	r := router.NewRouter(engine)

	catalogRoutes := router.NewDomainGroup("catalog", "")
	catalogRoutes.GET("/stores", storeHandler.List)
	catalogRoutes.GET("/store/:id", storeHandler.GetByID)
	catalogRoutes.GET("/store/:id/products", storeHandler.ListProducts)
	catalogRoutes.GET("/product/:id", productHandler.GetByID)
	catalogRoutes.GET("/product/:id/reviews", reviewHandler.ListByProduct)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register/buyer", authHandler.RegisterBuyer)
	authRoutes.POST("/register/vendor", authHandler.RegisterVendor)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/password-reset/request", authHandler.RequestPasswordReset)
	authRoutes.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	sessionRoutes := router.NewDomainGroup("session", "/auth")
	sessionRoutes.Use(requireAuth)
	sessionRoutes.POST("/logout", authHandler.Logout)
	sessionRoutes.GET("/me", authHandler.GetCurrentUser)

	vendorRoutes := router.NewDomainGroup("vendor", "")
	vendorRoutes.Use(requireAuth, middleware.RequireVendor(log))
	vendorRoutes.POST("/create/store", storeHandler.Create)
	vendorRoutes.PUT("/store", storeHandler.Update)
	vendorRoutes.POST("/create/product", productHandler.Create)
	vendorRoutes.PUT("/product/:id", productHandler.Update)
	vendorRoutes.POST("/product/:id/image", productHandler.UploadImage)

	buyerRoutes := router.NewDomainGroup("buyer", "")
	buyerRoutes.Use(requireAuth, middleware.RequireBuyer(log))
	buyerRoutes.GET("/cart", cartHandler.GetCart)
	buyerRoutes.POST("/cart/items", cartHandler.AddItem)
	buyerRoutes.PUT("/cart/items/:productId", cartHandler.UpdateItem)
	buyerRoutes.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
	buyerRoutes.POST("/checkout", orderHandler.Checkout)
	buyerRoutes.GET("/orders", orderHandler.List)
	buyerRoutes.GET("/orders/:id", orderHandler.GetByID)
	buyerRoutes.POST("/product/:id/reviews", reviewHandler.Create)

	r.Register(catalogRoutes).
		Register(authRoutes).
		Register(sessionRoutes).
		Register(vendorRoutes).
		Register(buyerRoutes)
	r.Setup()

	return &testServer{
		Engine:     engine,
		DB:         db,
		JWT:        jwtService,
		OutboxRepo: outboxRepo,
		Serializer: serializer,
	}
}

// doJSON performs a request against the test server. A non-empty token
// is sent as a bearer Authorization header.
func (s *testServer) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse response body: %s", w.Body.String())
	return resp
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	resp := parseBody(t, w)
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "Expected data object in response: %s", w.Body.String())
	return data
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	resp := parseBody(t, w)
	errObj, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "Expected error object in response: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// assertPrice compares a money field from a parsed response against an
// expected decimal value. Comparison is numeric, so a backend that
// normalizes "75.00" to "75" still passes.
func assertPrice(t *testing.T, expected string, actual interface{}) {
	t.Helper()

	s, ok := actual.(string)
	require.True(t, ok, "expected a decimal string, got %T (%v)", actual, actual)
	got, err := decimal.NewFromString(s)
	require.NoError(t, err)
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Equal(got), "expected %s, got %s", expected, s)
}

// registerAndLogin creates an account through the API and returns the
// access token together with the registered user's ID.
func (s *testServer) registerAndLogin(t *testing.T, role, username, email, password string) (token, userID string) {
	t.Helper()

	registerPath := "/api/auth/register/buyer"
	if role == "vendor" {
		registerPath = "/api/auth/register/vendor"
	}

	w := s.doJSON(t, http.MethodPost, registerPath, "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())
	user := dataOf(t, w)["user"].(map[string]interface{})
	userID = user["id"].(string)

	w = s.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	tokenObj := dataOf(t, w)["token"].(map[string]interface{})
	token = tokenObj["access_token"].(string)
	return token, userID
}
