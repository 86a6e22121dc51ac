package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ikonicity-airban/geek-creations-sub001/database"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	// Shopify commerce backend
	ShopifyShopDomain  string
	ShopifyAccessToken string
	ShopifyAPIVersion  string

	// Payment providers
	PaystackSecretKey string
	PaystackBaseURL   string
	SolanaRecipient   string
	SolanaRPCURL      string
	SolanaUSDCMint    string
	StoreLabel        string

	// Pricing policy
	Currency              string
	TaxRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64

	// URLs
	FrontendURL string
	PublicURL   string

	// Events
	KafkaBrokers     string
	KafkaOrderTopic  string
	OrderSNSTopicARN string

	AdminAPIToken string
}

// LoadConfig reads configuration from the environment, loading .env first
// when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Africa/Lagos"),

		ShopifyShopDomain:  os.Getenv("SHOPIFY_SHOP_DOMAIN"),
		ShopifyAccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-01"),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   os.Getenv("PAYSTACK_BASE_URL"),
		SolanaRecipient:   os.Getenv("SOLANA_RECIPIENT_WALLET"),
		SolanaRPCURL:      getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		SolanaUSDCMint:    getEnv("SOLANA_USDC_MINT", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		StoreLabel:        getEnv("STORE_LABEL", "Geek Creations"),

		Currency:              getEnv("STORE_CURRENCY", "NGN"),
		TaxRate:               getEnvFloat("CHECKOUT_TAX_RATE", 0.075),
		FreeShippingThreshold: getEnvFloat("CHECKOUT_FREE_SHIPPING_THRESHOLD", 50000),
		FlatShippingFee:       getEnvFloat("CHECKOUT_FLAT_SHIPPING_FEE", 2500),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:8080"),

		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaOrderTopic:  getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),

		AdminAPIToken: os.Getenv("ADMIN_API_TOKEN"),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.ShopifyShopDomain == "" || cfg.ShopifyAccessToken == "" {
		return nil, fmt.Errorf("shopify config incomplete")
	}
	if cfg.PaystackSecretKey == "" {
		return nil, fmt.Errorf("paystack secret key missing")
	}

	return cfg, nil
}

// DatabaseConfig builds the database connection settings.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		SSLMode:  c.PostgresSSLMode,
		TimeZone: c.PostgresTimeZone,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
