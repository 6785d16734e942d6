package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Vendor     VendorConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Aggregator AggregatorConfig
	Locations  []LocationConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VendorConfig holds the meal-planning API configuration
type VendorConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TokenURL       string        `mapstructure:"token_url"`
	AccountID      string        `mapstructure:"account_id"`
	TenantID       string        `mapstructure:"tenant_id"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "disk" or "memory"
	Dir        string        `mapstructure:"dir"`
	PeriodsTTL time.Duration `mapstructure:"periods_ttl"`
	ItemsTTL   time.Duration `mapstructure:"items_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int     `mapstructure:"per_ip"` // requests per minute per client IP
	API   float64 `mapstructure:"api"`    // outbound requests per second, 0 disables
}

// AggregatorConfig holds menu aggregation settings
type AggregatorConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"` // 0 = unbounded
}

// LocationConfig is one statically configured dining location
type LocationConfig struct {
	ID   int    `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the given file instead of
// searching the default locations when path is not empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/menulens/")
	}

	// Environment variable settings
	v.SetEnvPrefix("MENULENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Vendor defaults
	v.SetDefault("vendor.base_url", "https://api.mealplanner.example.com/api/v1/data-locator-webapi")
	v.SetDefault("vendor.token_url", "https://api.mealplanner.example.com/api/v1/data-locator-webapi/common/token")
	v.SetDefault("vendor.account_id", "")
	v.SetDefault("vendor.tenant_id", "")
	v.SetDefault("vendor.dial_timeout", "30s")
	v.SetDefault("vendor.request_timeout", "60s")

	// Cache defaults
	v.SetDefault("cache.type", "disk")
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.periods_ttl", "24h")
	v.SetDefault("cache.items_ttl", "6h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.api", 0)

	v.SetDefault("aggregator.max_concurrency", 0)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "menulens")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Vendor.AccountID == "" {
		return fmt.Errorf("vendor account id is required (set MENULENS_VENDOR_ACCOUNT_ID)")
	}

	if config.Vendor.BaseURL == "" || config.Vendor.TokenURL == "" {
		return fmt.Errorf("vendor base_url and token_url are required")
	}

	if config.Cache.Type != "disk" && config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'disk' or 'memory', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "disk" && config.Cache.Dir == "" {
		return fmt.Errorf("cache dir is required when cache type is 'disk'")
	}

	if config.Aggregator.MaxConcurrency < 0 {
		return fmt.Errorf("aggregator max_concurrency must not be negative, got: %d", config.Aggregator.MaxConcurrency)
	}

	seen := make(map[int]bool, len(config.Locations))
	for _, loc := range config.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return fmt.Errorf("location %d has no name", loc.ID)
		}
		if seen[loc.ID] {
			return fmt.Errorf("duplicate location id %d", loc.ID)
		}
		seen[loc.ID] = true
	}

	return nil
}
