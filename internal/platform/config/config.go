package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Migration engine settings
	OffsetAccount   string          // fixed balancing leg of adjustment journals
	Tolerance       decimal.Decimal // reconciliation tolerance in currency units
	UpstreamTimeout time.Duration   // bound on each collaborator call

	// Rate limiting, e.g. "60-M" for 60 requests per minute
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
	viper.SetDefault("MIGRATION_OFFSET_ACCOUNT", "99999")
	viper.SetDefault("RECON_TOLERANCE", "0.01")
	viper.SetDefault("UPSTREAM_TIMEOUT", "15s")
	viper.SetDefault("RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.OffsetAccount = viper.GetString("MIGRATION_OFFSET_ACCOUNT")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	toleranceStr := viper.GetString("RECON_TOLERANCE")
	tolerance, err := decimal.NewFromString(toleranceStr)
	if err != nil || !tolerance.IsPositive() {
		tolerance = decimal.RequireFromString("0.01")
		log.Printf("Warning: Invalid value for RECON_TOLERANCE (%q). Defaulting to %s.\n", toleranceStr, tolerance.String())
	}
	cfg.Tolerance = tolerance

	timeoutStr := viper.GetString("UPSTREAM_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = 15 * time.Second
		log.Printf("Warning: Invalid value for UPSTREAM_TIMEOUT (%q). Defaulting to %s.\n", timeoutStr, timeout.String())
	}
	cfg.UpstreamTimeout = timeout

	return cfg, nil
}
