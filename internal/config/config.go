package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Redis (optional SKU lock)
	RedisURL string

	// Kafka (optional event stream)
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// eBay
	EbayClientID     string
	EbayClientSecret string

	// Worker
	WorkerBatchSize    int
	WorkerPollSeconds  int
	WorkerDelayMillis  int
	EbayFetchQuota     int
	EbayFetchPageSize  int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://esyncify.db"),
		RedisURL:            getEnv("REDIS_URL", ""),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", ""),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		EbayClientID:        getEnv("EBAY_API_ID", ""),
		EbayClientSecret:    getEnv("EBAY_API_SECRET", ""),
		WorkerBatchSize:     getEnvAsInt("WORKER_BATCH_SIZE", 5),
		WorkerPollSeconds:   getEnvAsInt("WORKER_POLL_SECONDS", 5),
		WorkerDelayMillis:   getEnvAsInt("WORKER_DELAY_MILLIS", 250),
		EbayFetchQuota:      getEnvAsInt("EBAY_FETCH_QUOTA", 250),
		EbayFetchPageSize:   getEnvAsInt("EBAY_FETCH_PAGE_SIZE", 200),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
