package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"wallet-recon/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	DataAPI   DataAPIConfig   `mapstructure:"data_api"`
	Etherscan EtherscanConfig `mapstructure:"etherscan"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	Window    WindowConfig    `mapstructure:"window"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Fees      FeesConfig      `mapstructure:"fees"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DataAPIConfig covers the Polymarket data API.
type DataAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PageDelay      time.Duration `mapstructure:"page_delay"`
}

// EtherscanConfig covers transaction receipt access.
type EtherscanConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	ChainID        int           `mapstructure:"chain_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CallDelay      time.Duration `mapstructure:"call_delay"`
}

// QuoteConfig covers the native-token quote price source.
type QuoteConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TokenID        string        `mapstructure:"token_id"`
	Currency       string        `mapstructure:"currency"`
	FallbackPrice  float64       `mapstructure:"fallback_price"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// WindowConfig fixes the reference time zone for date windows.
type WindowConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// FetchConfig sets trade pagination defaults.
type FetchConfig struct {
	Limit    int    `mapstructure:"limit"`
	MaxPages int    `mapstructure:"max_pages"`
	Role     string `mapstructure:"role"`
}

// FeesConfig governs the fee enrichment run.
type FeesConfig struct {
	ActivityType string `mapstructure:"activity_type"`
	Limit        int    `mapstructure:"limit"`
	MaxPages     int    `mapstructure:"max_pages"`
	Workers      int    `mapstructure:"workers"`
}

// Load builds configuration from .env, file, environment, and defaults.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POLYRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "polyrecon")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("data_api.base_url", "https://data-api.polymarket.com")
	v.SetDefault("data_api.user_agent", "Mozilla/5.0")
	v.SetDefault("data_api.request_timeout", "30s")
	v.SetDefault("data_api.page_delay", "150ms")

	v.SetDefault("etherscan.base_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("etherscan.chain_id", 137)
	v.SetDefault("etherscan.request_timeout", "30s")
	v.SetDefault("etherscan.call_delay", "200ms")

	v.SetDefault("quote.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("quote.token_id", "matic-network")
	v.SetDefault("quote.currency", "usd")
	v.SetDefault("quote.fallback_price", 0.50)
	v.SetDefault("quote.request_timeout", "10s")

	v.SetDefault("window.timezone", "Europe/Amsterdam")

	v.SetDefault("fetch.limit", 250)
	v.SetDefault("fetch.max_pages", 20)
	v.SetDefault("fetch.role", "all")

	v.SetDefault("fees.activity_type", "MERGE")
	v.SetDefault("fees.limit", 100)
	v.SetDefault("fees.max_pages", 50)
	v.SetDefault("fees.workers", 1)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Fetch.Limit <= 0 {
		return fmt.Errorf("fetch.limit must be greater than zero")
	}
	if c.Fetch.MaxPages <= 0 {
		return fmt.Errorf("fetch.max_pages must be greater than zero")
	}
	switch c.Fetch.Role {
	case "maker", "taker", "all":
	default:
		return fmt.Errorf("fetch.role must be maker, taker, or all")
	}
	if c.Quote.FallbackPrice <= 0 {
		return fmt.Errorf("quote.fallback_price must be greater than zero")
	}
	if c.Fees.Workers <= 0 {
		return fmt.Errorf("fees.workers must be greater than zero")
	}
	if c.Fees.Limit <= 0 {
		return fmt.Errorf("fees.limit must be greater than zero")
	}
	if c.Window.Timezone == "" {
		return fmt.Errorf("window.timezone must be set")
	}
	return nil
}
