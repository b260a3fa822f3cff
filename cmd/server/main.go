package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/swiftbasket/backend/internal/application/catalog"
	eventapp "github.com/swiftbasket/backend/internal/application/event"
	identityapp "github.com/swiftbasket/backend/internal/application/identity"
	notificationapp "github.com/swiftbasket/backend/internal/application/notification"
	shoppingapp "github.com/swiftbasket/backend/internal/application/shopping"
	tradeapp "github.com/swiftbasket/backend/internal/application/trade"
	"github.com/swiftbasket/backend/internal/infrastructure/auth"
	"github.com/swiftbasket/backend/internal/infrastructure/cache"
	"github.com/swiftbasket/backend/internal/infrastructure/config"
	"github.com/swiftbasket/backend/internal/infrastructure/event"
	"github.com/swiftbasket/backend/internal/infrastructure/logger"
	infranotification "github.com/swiftbasket/backend/internal/infrastructure/notification"
	"github.com/swiftbasket/backend/internal/infrastructure/persistence"
	"github.com/swiftbasket/backend/internal/infrastructure/scheduler"
	"github.com/swiftbasket/backend/internal/infrastructure/storage"
	"github.com/swiftbasket/backend/internal/infrastructure/telemetry"
	"github.com/swiftbasket/backend/internal/interfaces/http/handler"
	"github.com/swiftbasket/backend/internal/interfaces/http/middleware"
	"github.com/swiftbasket/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/swiftbasket/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			SwiftBasket API
//	@version		1.0
//	@description	Multi-vendor marketplace backend API
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.email	support@swiftbasket.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SwiftBasket Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// OpenTelemetry providers. When telemetry is disabled these are no-ops,
	// so the rest of the wiring does not need to branch.
	telemetryCtx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(telemetryCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(telemetryCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(telemetryCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Attach query tracing to GORM (if enabled)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Query latency and connection pool metrics on the same GORM instance
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(telemetryCtx)
		defer dbMetrics.Stop()
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	resetTokenRepo := persistence.NewGormResetTokenRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that persist domain events
	userRepo.SetOutboxEventSaver(outboxPublisher)
	resetTokenRepo.SetOutboxEventSaver(outboxPublisher)
	storeRepo.SetOutboxEventSaver(outboxPublisher)
	productRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Token blacklist backs logout. Redis keeps revocations across restarts;
	// the in-memory fallback keeps a single node functional without it.
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Object storage for product images
	objectStorage, err := storage.NewObjectStorageFromConfig(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	passwordResetService := identityapp.NewPasswordResetService(userRepo, resetTokenRepo, log)
	storeService := catalogapp.NewStoreService(storeRepo, userRepo, log)
	productService := catalogapp.NewProductService(productRepo, storeRepo, reviewRepo, userRepo, objectStorage, log)
	productImageService := catalogapp.NewProductImageService(productRepo, storeRepo, objectStorage, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, orderRepo, userRepo, log)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := tradeapp.NewCheckoutService(orderRepo, cartRepo, productRepo, storeRepo, userRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Notification channels
	emailSender, err := infranotification.NewEmailSenderFromConfig(&cfg.Notification.Email, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender", zap.Error(err))
	}
	socialPublisher, err := infranotification.NewSocialPublisherFromConfig(&cfg.Notification.Social, log)
	if err != nil {
		log.Fatal("Failed to initialize social publisher", zap.Error(err))
	}

	// Idempotency store dedupes redelivered outbox entries before they
	// reach the notification channels. Redis when available; the in-memory
	// fallback only protects a single instance.
	idemStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idemStore.Close()
	}()

	// Initialize event bus and notification handlers. Each handler is
	// wrapped so an event ID is dispatched to its channel at most once
	// per TTL window.
	eventBus := event.NewInMemoryEventBus(log)

	orderPlacedHandler := notificationapp.NewOrderPlacedHandler(emailSender, socialPublisher, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderPlacedHandler, idemStore, log))

	productCreatedHandler := notificationapp.NewProductCreatedHandler(emailSender, socialPublisher, log)
	eventBus.Subscribe(event.NewIdempotentHandler(productCreatedHandler, idemStore, log))

	storeCreatedHandler := notificationapp.NewStoreCreatedHandler(emailSender, socialPublisher, log)
	eventBus.Subscribe(event.NewIdempotentHandler(storeCreatedHandler, idemStore, log))

	userRegisteredHandler := notificationapp.NewUserRegisteredHandler(emailSender, log)
	eventBus.Subscribe(event.NewIdempotentHandler(userRegisteredHandler, idemStore, log))

	passwordResetHandler := notificationapp.NewPasswordResetHandler(emailSender, cfg.Notification.ResetURLBase, log)
	eventBus.Subscribe(event.NewIdempotentHandler(passwordResetHandler, idemStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("product_created_events", productCreatedHandler.EventTypes()),
		zap.Strings("store_created_events", storeCreatedHandler.EventTypes()),
		zap.Strings("user_registered_events", userRegisteredHandler.EventTypes()),
		zap.Strings("password_reset_events", passwordResetHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start the outbox processor for guaranteed event
	// delivery. It reads events from the outbox_events table and publishes
	// them to the event bus.
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Periodic cleanup of expired password reset tokens
	if cfg.Scheduler.Enabled {
		tokenCleanup := scheduler.NewTokenCleanupScheduler(resetTokenRepo, log, scheduler.TokenCleanupSchedulerConfig{
			Enabled:    cfg.Scheduler.Enabled,
			Interval:   cfg.Scheduler.TokenCleanupInterval,
			JobTimeout: cfg.Scheduler.JobTimeout,
		})
		if err := tokenCleanup.Start(context.Background()); err != nil {
			log.Fatal("Failed to start token cleanup scheduler", zap.Error(err))
		}
		defer func() {
			if err := tokenCleanup.Stop(context.Background()); err != nil {
				log.Error("Error stopping token cleanup scheduler", zap.Error(err))
			}
		}()
		log.Info("Token cleanup scheduler started",
			zap.Duration("interval", cfg.Scheduler.TokenCleanupInterval),
		)
	}

	// Business metrics observe outbox queue depth alongside request metrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter("swiftbasket.business"),
			Logger:         log,
			OutboxProvider: telemetry.NewGormOutboxQueueProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, passwordResetService)
	storeHandler := handler.NewStoreHandler(storeService, productService)
	productHandler := handler.NewProductHandler(productService, productImageService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - Observability (only when telemetry is enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("swiftbasket.http"), true))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside the API base path)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtService)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes
	r := router.NewRouter(engine)

	// Authenticated routes verify the token against the blacklist so a
	// logged-out token stops working immediately.
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
	})

	// Public catalog browsing
	catalogRoutes := router.NewDomainGroup("catalog", "")
	catalogRoutes.GET("/stores", storeHandler.List)
	catalogRoutes.GET("/store/:id", storeHandler.GetByID)
	catalogRoutes.GET("/store/:id/products", storeHandler.ListProducts)
	catalogRoutes.GET("/product/:id", productHandler.GetByID)
	catalogRoutes.GET("/product/:id/reviews", reviewHandler.ListByProduct)

	// Authentication (public endpoints, rate limited separately when enabled)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/register/buyer", authHandler.RegisterBuyer)
	authRoutes.POST("/register/vendor", authHandler.RegisterVendor)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/password-reset/request", authHandler.RequestPasswordReset)
	authRoutes.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Authentication (session endpoints)
	sessionRoutes := router.NewDomainGroup("session", "/auth")
	sessionRoutes.Use(requireAuth)
	sessionRoutes.POST("/logout", authHandler.Logout)
	sessionRoutes.GET("/me", authHandler.GetCurrentUser)

	// Vendor operations (store and product management)
	vendorRoutes := router.NewDomainGroup("vendor", "")
	vendorRoutes.Use(requireAuth, middleware.RequireVendor(log))
	vendorRoutes.POST("/create/store", storeHandler.Create)
	vendorRoutes.PUT("/store", storeHandler.Update)
	vendorRoutes.POST("/create/product", productHandler.Create)
	vendorRoutes.PUT("/product/:id", productHandler.Update)
	vendorRoutes.POST("/product/:id/image", productHandler.UploadImage)

	// Buyer operations (cart, checkout, orders, reviews)
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

	// Outbox administration (authenticated operators)
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(requireAuth)
	adminRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	adminRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	adminRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	adminRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	adminRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(authRoutes).
		Register(sessionRoutes).
		Register(vendorRoutes).
		Register(buyerRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
