package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"checkout-service/internal/clients"
	"checkout-service/internal/config"
	"checkout-service/internal/handlers"
	"checkout-service/internal/middleware"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
	"checkout-service/internal/services"
	"checkout-service/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Structured logger
	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.JSONFormatter{})
	appLogger.SetLevel(logrus.InfoLevel)

	// Connect to database
	db, err := connectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.CheckoutLink{},
		&models.PaymentMethod{},
		&models.Payment{},
		&models.Notification{},
		&models.MerchantSettings{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}

	// Redis for idempotency claims; the service degrades to DB-only
	// duplicate detection when Redis is down
	var claimer services.IdempotencyClaimer
	if redisClient := connectRedis(cfg.RedisURL); redisClient != nil {
		claimer = services.NewRedisClaimer(redisClient)
	}

	// Initialize repositories
	linkRepo := repository.NewLinkRepository(db)
	methodRepo := repository.NewMethodRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize clients
	proofStore := storage.NewDocumentStore(cfg.DocumentServiceURL, cfg.ProofBucket, appLogger)
	notificationClient := clients.NewNotificationClient(cfg.NotificationServiceURL)
	log.Println("✓ Notification client initialized")

	// Initialize services
	notifier := services.NewNotifier(notificationRepo, linkRepo, notificationClient, cfg.DashboardURL, appLogger)
	checkoutService := services.NewCheckoutService(linkRepo, appLogger)
	methodResolver := services.NewMethodResolver(methodRepo)
	methodService := services.NewMethodService(methodRepo, appLogger)
	submissionService := services.NewSubmissionService(checkoutService, methodResolver, methodRepo, paymentRepo, proofStore, claimer, notifier, appLogger)
	verificationService := services.NewVerificationService(paymentRepo, notifier, appLogger)

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, methodResolver, submissionService)
	paymentHandler := handlers.NewPaymentHandler(verificationService)
	merchantHandler := handlers.NewMerchantHandler(checkoutService, methodService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// Setup router
	router := setupRouter(cfg, checkoutHandler, paymentHandler, merchantHandler, notificationHandler)

	// Start server
	log.Printf("Checkout Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase establishes a connection to the database
func connectDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Needed so unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✓ Connected to database")
	return db, nil
}

// connectRedis connects to Redis, returning nil when unavailable
func connectRedis(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Warning: Invalid REDIS_URL: %v (idempotency claims disabled)", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis unreachable: %v (idempotency claims disabled)", err)
		return nil
	}

	log.Println("✓ Connected to Redis")
	return client
}

// setupRouter configures the HTTP router
func setupRouter(cfg *config.Config, checkoutHandler *handlers.CheckoutHandler, paymentHandler *handlers.PaymentHandler, merchantHandler *handlers.MerchantHandler, notificationHandler *handlers.NotificationHandler) *gin.Engine {
	router := gin.Default()

	// Initialize rate limiters
	rateLimits := middleware.NewCheckoutRateLimits()

	// Security headers middleware
	router.Use(middleware.SecurityHeaders())

	// CORS middleware with secure configuration
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins
	router.Use(middleware.CORS(corsConfig))

	// Request validation middleware
	router.Use(middleware.ValidateRequest())

	// Actor context middleware
	router.Use(middleware.ActorMiddleware())

	// Audit logging middleware
	router.Use(middleware.AuditMiddleware(nil))

	// Health check (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "checkout-service",
		})
	})

	// Public checkout endpoints - unauthenticated, rate limited by IP
	checkout := router.Group("/checkout/:slug")
	checkout.Use(middleware.RateLimitMiddleware(rateLimits.APIGeneral, "ip"))
	{
		checkout.GET("/validate", checkoutHandler.Validate)
		checkout.GET("/countries", checkoutHandler.ListCountries)
		checkout.GET("/methods", checkoutHandler.ListMethods)
		checkout.POST("/submit",
			middleware.RateLimitMiddleware(rateLimits.Submit, "ip"),
			checkoutHandler.Submit)
	}

	// Authenticated API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireActor())
	v1.Use(middleware.RateLimitMiddleware(rateLimits.APIGeneral, "user"))
	{
		payments := v1.Group("/payments")
		{
			payments.GET("", middleware.RequireMerchant(), paymentHandler.ListPayments)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.POST("/:id/verify",
				middleware.RateLimitMiddleware(rateLimits.Verify, "user"),
				paymentHandler.Verify)
		}

		links := v1.Group("/links")
		links.Use(middleware.RequireMerchant())
		{
			links.POST("", merchantHandler.CreateLink)
			links.GET("", merchantHandler.ListLinks)
			links.GET("/:id", merchantHandler.GetLink)
			links.PATCH("/:id/deactivate", merchantHandler.DeactivateLink)
		}

		methods := v1.Group("/methods")
		methods.Use(middleware.RequireMerchant())
		{
			methods.POST("", merchantHandler.CreateMethod)
			methods.GET("", merchantHandler.ListMethods)
			methods.PATCH("/:id/status", merchantHandler.UpdateMethodStatus)
		}

		settings := v1.Group("/settings")
		settings.Use(middleware.RequireMerchant())
		{
			settings.GET("", merchantHandler.GetSettings)
			settings.PUT("", merchantHandler.UpdateSettings)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	return router
}
