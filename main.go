package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ikonicity-airban/geek-creations-sub001/controllers"
	"github.com/ikonicity-airban/geek-creations-sub001/database"
	kafkapkg "github.com/ikonicity-airban/geek-creations-sub001/kafka"
	"github.com/ikonicity-airban/geek-creations-sub001/models"
	aws_pkg "github.com/ikonicity-airban/geek-creations-sub001/pkg/aws"
	"github.com/ikonicity-airban/geek-creations-sub001/providers"
	"github.com/ikonicity-airban/geek-creations-sub001/repository"
	"github.com/ikonicity-airban/geek-creations-sub001/routes"
	servicepkg "github.com/ikonicity-airban/geek-creations-sub001/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseConfig())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := db.AutoMigrate(&models.Order{}, &models.PaymentTransaction{}, &models.ProductVariant{}); err != nil {
		logger.Fatal("Failed to migrate models", zap.Error(err))
	}

	// AWS / SNS (optional)
	var snsClient aws_pkg.SNSPublisher
	if cfg.OrderSNSTopicARN != "" {
		awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background())
		if awsErr != nil {
			logger.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
		} else {
			snsClient = aws_pkg.NewSNSClient(awsCfg)
		}
	}

	// Kafka (optional)
	var eventProducer servicepkg.OrderEventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafkapkg.NewOrderEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaOrderTopic)
		defer producer.Close() //nolint:errcheck
		eventProducer = producer
	}

	// Payment providers and router
	paystack := providers.NewPaystackProvider(cfg.PaystackSecretKey, cfg.PaystackBaseURL)
	solanaPay := providers.NewSolanaPayProvider(cfg.SolanaRecipient, cfg.SolanaRPCURL, cfg.SolanaUSDCMint, cfg.StoreLabel)
	router := providers.NewRouter(paystack, solanaPay)

	// Commerce backend
	shopify := servicepkg.NewShopifyClient(cfg.ShopifyShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion)

	// Repositories
	orderRepo := repository.NewGormOrderRepository(db)
	txnRepo := repository.NewGormTransactionRepository(db)
	variantRepo := repository.NewGormVariantRepository(db)

	pricing := servicepkg.Pricing{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}

	checkoutService := servicepkg.NewCheckoutService(
		variantRepo,
		orderRepo,
		txnRepo,
		shopify,
		paystack,
		solanaPay,
		pricing,
		cfg.Currency,
		cfg.PublicURL+"/payment/verify",
		eventProducer,
		logger,
	)
	settlementService := servicepkg.NewSettlementService(
		router,
		orderRepo,
		txnRepo,
		shopify,
		snsClient,
		cfg.OrderSNSTopicARN,
		logger,
	)

	checkoutController := controllers.NewCheckoutController(checkoutService)
	paymentController := controllers.NewPaymentController(settlementService, paystack, cfg.FrontendURL, logger)
	adminController := controllers.NewAdminController(orderRepo, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	// Global request-logging middleware
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "checkout-service"})
	})

	routes.RegisterRoutes(r, checkoutController, paymentController, adminController, cfg.AdminAPIToken)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Checkout service started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down checkout service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
