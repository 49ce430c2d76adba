// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ULIP tracking provider. Credentials are injected here and nowhere else.
	ULIPBaseURL  string
	ULIPUsername string
	ULIPPassword string

	// MongoDB booking seed source. Empty URI means the built-in fixture set.
	MongoURI string
	MongoDB  string

	// Postgres port location reference. Empty DSN means the static fallback.
	PostgresDSN string

	// Background reconciliation. Zero disables the loop.
	TrackingPollInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		ULIPBaseURL:  getEnv("ULIP_BASE_URL", "https://www.ulipstaging.dpiit.gov.in/ulip/v1.0.0"),
		ULIPUsername: getEnv("ULIP_USERNAME", ""),
		ULIPPassword: getEnv("ULIP_PASSWORD", ""),

		MongoURI: getEnv("MONGODB_DSN", ""),
		MongoDB:  getEnv("MONGO_DB", "vbs"),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		TrackingPollInterval: time.Duration(getEnvAsInt("TRACKING_POLL_INTERVAL", 0)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
