package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the checkout service
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Redis for idempotency claims
	RedisURL string

	// Downstream services
	DocumentServiceURL     string
	NotificationServiceURL string

	// Merchant dashboard base URL, used in merchant emails
	DashboardURL string

	// Proof file bucket in the document service
	ProofBucket string

	// CORS
	AllowedOrigins []string
}

// buildDatabaseURL constructs the database URL from individual components
func buildDatabaseURL() string {
	// First check if DATABASE_URL is explicitly set
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "checkout")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}

// Load loads configuration from environment variables
func Load() *Config {
	// .env is optional; real deployments configure through the environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	config := &Config{
		Port:                   getEnv("PORT", "8093"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		DatabaseURL:            buildDatabaseURL(),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DocumentServiceURL:     getEnv("DOCUMENT_SERVICE_URL", "http://document-service.global.svc.cluster.local:8085"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://notification-service.global.svc.cluster.local:8090"),
		DashboardURL:           getEnv("DASHBOARD_URL", "http://localhost:3000"),
		ProofBucket:            getEnv("PROOF_BUCKET", "checkout-payment-proofs"),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	} else {
		config.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}

	if config.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
