package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string        // Optional: issuer claim for tokens (default: carhire-api)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./devapi.db)
	PepperFile     string        // Optional: path to the password pepper file (default: ./pepper)
	SigningKeyFile string        // Optional: PEM Ed25519 key, generated if missing. Empty means ephemeral
	TokenTTL       time.Duration // Optional: access token lifetime (default: 24h)
	SeedVehicles   bool          // Optional: upsert the demo fleet on startup (default: true)
	AdminEmail     string        // Optional: first admin account, created only on an empty database
	AdminPassword  string        // Optional: password for AdminEmail

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("DEVAPI_ISSUER", "carhire-api"),
		DatabaseFile:   getEnvOrDefault("DEVAPI_DATABASE_FILE", "devapi.db"),
		PepperFile:     getEnvOrDefault("DEVAPI_PEPPER_FILE", "pepper"),
		SigningKeyFile: os.Getenv("DEVAPI_SIGNING_KEY_FILE"),
		TokenTTL:       getEnvDurationOrDefault("DEVAPI_TOKEN_TTL", 24*time.Hour),
		SeedVehicles:   getEnvBoolOrDefault("DEVAPI_SEED_VEHICLES", true),
		AdminEmail:     os.Getenv("DEVAPI_ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("DEVAPI_ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
