// Package config handles loading and validation of application
// configuration from environment variables.
package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string   `mapstructure:"PORT"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
}

// RedisConfig holds key-value store connection details.
type RedisConfig struct {
	Address  string `mapstructure:"REDIS_ADDRESS"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// BillConfig carries the business limits applied by validation and the
// ledger. Loaded once at startup and treated as immutable afterwards.
type BillConfig struct {
	// MinTotalAmount and MaxTotalAmount are decimal strings in the
	// settlement currency.
	MinTotalAmount string `mapstructure:"MIN_TOTAL_AMOUNT"`
	MaxTotalAmount string `mapstructure:"MAX_TOTAL_AMOUNT"`
	// MaxParticipants caps the target roster size of a bill.
	MaxParticipants int `mapstructure:"MAX_PARTICIPANTS"`
	// TokenDecimals is the stablecoin's native precision; every
	// monetary string in the system is fixed to this many places.
	TokenDecimals int32 `mapstructure:"TOKEN_DECIMALS"`
	// ShareBaseURL is the template prefix for shareable bill links.
	ShareBaseURL string `mapstructure:"SHARE_BASE_URL"`
	// BillCacheSize bounds the in-process LRU used as a read fallback
	// when the store is unreachable.
	BillCacheSize int `mapstructure:"BILL_CACHE_SIZE"`
}

// Config is the root application configuration.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Bill   BillConfig
}

// MinAmount returns the configured minimum total as a decimal.
func (c *BillConfig) MinAmount() decimal.Decimal {
	return decimal.RequireFromString(c.MinTotalAmount)
}

// MaxAmount returns the configured maximum total as a decimal.
func (c *BillConfig) MaxAmount() decimal.Decimal {
	return decimal.RequireFromString(c.MaxTotalAmount)
}

// Load reads configuration from the environment with sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MIN_TOTAL_AMOUNT", "1")
	v.SetDefault("MAX_TOTAL_AMOUNT", "10000")
	v.SetDefault("MAX_PARTICIPANTS", 20)
	v.SetDefault("TOKEN_DECIMALS", 6)
	v.SetDefault("SHARE_BASE_URL", "https://splitbill.app/bill")
	v.SetDefault("BILL_CACHE_SIZE", 512)

	cfg := &Config{}
	if err := v.Unmarshal(&cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := v.Unmarshal(&cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}
	if err := v.Unmarshal(&cfg.Bill); err != nil {
		return nil, fmt.Errorf("failed to load bill config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	min, err := decimal.NewFromString(c.Bill.MinTotalAmount)
	if err != nil {
		return fmt.Errorf("invalid MIN_TOTAL_AMOUNT: %w", err)
	}
	max, err := decimal.NewFromString(c.Bill.MaxTotalAmount)
	if err != nil {
		return fmt.Errorf("invalid MAX_TOTAL_AMOUNT: %w", err)
	}
	if min.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("MIN_TOTAL_AMOUNT must be positive")
	}
	if max.LessThan(min) {
		return fmt.Errorf("MAX_TOTAL_AMOUNT must be >= MIN_TOTAL_AMOUNT")
	}
	if c.Bill.MaxParticipants < 2 {
		return fmt.Errorf("MAX_PARTICIPANTS must be at least 2")
	}
	if c.Bill.TokenDecimals < 0 {
		return fmt.Errorf("TOKEN_DECIMALS cannot be negative")
	}
	if c.Bill.BillCacheSize < 1 {
		return fmt.Errorf("BILL_CACHE_SIZE must be positive")
	}
	return nil
}
