package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// DefaultFeedURL is the BNR daily reference rates feed.
const DefaultFeedURL = "https://www.bnr.ro/nbrfxrates.xml"

// DefaultRateLimit bounds the public rates endpoint per client IP.
const DefaultRateLimit = "60-M"

// Config holds application configuration.
type Config struct {
	Port         string `validate:"required"`
	IsProduction bool

	StorageDriver string `validate:"required,oneof=postgres sqlite"`
	DatabaseURL   string `validate:"required_if=StorageDriver postgres"`
	SQLitePath    string `validate:"required_if=StorageDriver sqlite"`

	FeedURL       string        `validate:"required,url"`
	FetchInterval time.Duration `validate:"min=0"` // Zero disables the scheduler
	FetchTimeout  time.Duration `validate:"gt=0"`
	BaseCurrency  string        `validate:"required,len=3,uppercase"`

	RateLimit        string   `validate:"required"`
	CORSAllowOrigins []string `validate:"min=1,dive,required"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "fxrates.db")
	viper.SetDefault("FEED_URL", DefaultFeedURL)
	viper.SetDefault("FETCH_INTERVAL", "1h")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("BASE_CURRENCY", "RON")
	viper.SetDefault("RATE_LIMIT", DefaultRateLimit)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		StorageDriver:    strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		SQLitePath:       viper.GetString("SQLITE_PATH"),
		FeedURL:          viper.GetString("FEED_URL"),
		FetchInterval:    parseDurationOr("FETCH_INTERVAL", time.Hour),
		FetchTimeout:     parseDurationOr("FETCH_TIMEOUT", 30*time.Second),
		BaseCurrency:     strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		CORSAllowOrigins: splitOrigins(viper.GetString("CORS_ALLOW_ORIGINS")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseDurationOr reads a duration environment variable, falling back with
// a warning when the value does not parse.
func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}

// splitOrigins turns the comma separated CORS_ALLOW_ORIGINS value into a
// slice, dropping empty entries.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
