// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	IssuerURL string
	JWKSURI   string
}

type AnalyticsConfig struct {
	// DefaultWindowDays is used when the days query parameter is missing
	// or not on the allow-list.
	DefaultWindowDays int
	// SectionTimeoutSeconds bounds each secondary enrichment fetch so one
	// slow query cannot starve the whole report.
	SectionTimeoutSeconds int
}

func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
			Host: getEnvOrDefault("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnvOrDefault("MONGODB_DATABASE", "mawapp"),
		},
		Auth: AuthConfig{
			IssuerURL: os.Getenv("AUTH_ISSUER_URL"),
			JWKSURI:   os.Getenv("AUTH_JWKS_URI"),
		},
		Analytics: AnalyticsConfig{
			DefaultWindowDays:     getEnvAsInt("ANALYTICS_DEFAULT_WINDOW_DAYS", 7),
			SectionTimeoutSeconds: getEnvAsInt("ANALYTICS_SECTION_TIMEOUT_SECONDS", 10),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Auth.IssuerURL == "" {
		return fmt.Errorf("AUTH_ISSUER_URL is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
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
