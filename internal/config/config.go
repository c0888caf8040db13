package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Storage backend: "sqlite" (default) or "postgres"
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Access control. When neither password field is set, the API runs open
	// (local single-user mode).
	AppPassword     string
	AppPasswordHash string
	JWTSecret       string
	JWTExpirationDur time.Duration

	// Reporting
	LowRemainingThreshold float64

	// Archival polling
	TickInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "paycycle.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "paycycle"),
		DBPassword: getEnv("DB_PASSWORD", "paycycle"),
		DBName:     getEnv("DB_NAME", "paycycle"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppPassword:     getEnv("APP_PASSWORD", ""),
		AppPasswordHash: getEnv("APP_PASSWORD_HASH", ""),
		JWTSecret:       getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Parse low-remaining warning threshold
	thresholdStr := getEnv("LOW_REMAINING_THRESHOLD", "200")
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil || threshold < 0 {
		log.Printf("Warning: invalid LOW_REMAINING_THRESHOLD value '%s', falling back to 200\n", thresholdStr)
		threshold = 200
	}
	config.LowRemainingThreshold = threshold

	// Parse archival tick interval
	tickStr := getEnv("TICK_INTERVAL", "1h")
	tickDur, err := time.ParseDuration(tickStr)
	if err != nil || tickDur <= 0 {
		log.Printf("Warning: invalid TICK_INTERVAL value '%s', falling back to 1h\n", tickStr)
		tickDur = time.Hour
	}
	config.TickInterval = tickDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// AuthEnabled reports whether an access password is configured.
func (c *Config) AuthEnabled() bool {
	return c.AppPassword != "" || c.AppPasswordHash != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
