package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Forex rate source
	ForexAPIBaseURL string
	ForexAPIKey     string
	ForexCacheTTL   time.Duration
	ForexTimeout    time.Duration

	// PIIProtectionKey is the 32-byte key material for field-level encryption.
	PIIProtectionKey []byte

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("FOREX_API_BASE_URL", "")
	viper.SetDefault("FOREX_API_KEY", "")
	viper.SetDefault("FOREX_CACHE_TTL", "10m")
	viper.SetDefault("FOREX_TIMEOUT", "10s")
	viper.SetDefault("PII_PROTECTION_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.ForexAPIBaseURL = viper.GetString("FOREX_API_BASE_URL")
	cfg.ForexAPIKey = viper.GetString("FOREX_API_KEY")
	if cfg.ForexAPIBaseURL == "" || cfg.ForexAPIKey == "" {
		// Creation requests for non-PKR currencies will fail with a
		// configuration error until both are set.
		log.Println("Warning: FOREX_API_BASE_URL or FOREX_API_KEY not set.")
	}

	cacheTTLStr := viper.GetString("FOREX_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 10 * time.Minute
		log.Printf("Warning: Invalid value for FOREX_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
	}
	cfg.ForexCacheTTL = cacheTTL

	timeoutStr := viper.GetString("FOREX_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for FOREX_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.ForexTimeout = timeout

	keyB64 := viper.GetString("PII_PROTECTION_KEY")
	if keyB64 == "" {
		return nil, fmt.Errorf("PII_PROTECTION_KEY must be set (base64-encoded 32 bytes)")
	}
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("PII_PROTECTION_KEY is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("PII_PROTECTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	cfg.PIIProtectionKey = key

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
