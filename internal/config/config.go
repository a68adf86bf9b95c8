package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the link service used when API_URL is not set
const DefaultAPIURL = "https://url-shortner-bchm.onrender.com"

// Config holds all application configurations
// Values are read once at startup and never change afterwards
type Config struct {
	// Server Configuration
	Environment string
	ServerPort  string

	// Link service configuration
	APIURL        string        // Base address of the remote shortening service
	APITimeout    time.Duration // Per request timeout for remote calls
	APIRatePerSec int           // Outbound requests per second (0 = unlimited)
	PublicOrigin  string        // Origin used for displayed short links (empty = request origin)

	// Redis configuration
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	EnableSessionStore bool
	SessionTTL         time.Duration

	// Application settings
	RateLimitPerMinute int // Rate limit per IP address
}

// LoadConfig loads configuration from environment variables
// Returns error if the resulting configuration is invalid
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "3000"),

		// Link service
		APIURL:        strings.TrimSuffix(getEnv("API_URL", DefaultAPIURL), "/"),
		APITimeout:    time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		APIRatePerSec: getEnvAsInt("API_RATE_PER_SECOND", 10),
		PublicOrigin:  strings.TrimSuffix(getEnv("PUBLIC_ORIGIN", ""), "/"),

		// Redis configuration
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		EnableSessionStore: getEnvAsBool("ENABLE_SESSION_STORE", true),
		SessionTTL:         time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 3600)) * time.Second,

		// Application settings
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration is present and valid
func (c *Config) Validate() error {
	if err := validateOrigin("API_URL", c.APIURL); err != nil {
		return err
	}

	if c.PublicOrigin != "" {
		if err := validateOrigin("PUBLIC_ORIGIN", c.PublicOrigin); err != nil {
			return err
		}
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS must be positive")
	}

	if c.APIRatePerSec < 0 {
		return fmt.Errorf("API_RATE_PER_SECOND must not be negative, got %d", c.APIRatePerSec)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// validateOrigin requires an absolute http(s) address
func validateOrigin(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s must contain a host", key)
	}

	return nil
}

// Helper functions for reading environment variables

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as boolean or returns default
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
