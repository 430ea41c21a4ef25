package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Sources   SourcesConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds product source configuration
type SourcesConfig struct {
	CatalogDir string        `mapstructure:"catalog_dir"`
	Stores     []StoreConfig `mapstructure:"stores"`
}

// StoreConfig configures one remote store API
type StoreConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`
	SourceRPS float64 `mapstructure:"source_rps"`
}

// MatchingConfig holds matching and ranking configuration
type MatchingConfig struct {
	MaxResults         int     `mapstructure:"max_results"`
	QualityThreshold   float64 `mapstructure:"quality_threshold"`
	EnableDebugLogging bool    `mapstructure:"debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopscout/")

	v.SetEnvPrefix("SHOPSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Source defaults
	v.SetDefault("sources.catalog_dir", "./catalogs")

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.source_rps", 5.0)

	// Matching defaults
	v.SetDefault("matching.max_results", 30)
	v.SetDefault("matching.quality_threshold", 3.0)
	v.SetDefault("matching.debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.MaxResults <= 0 {
		return fmt.Errorf("matching.max_results must be positive, got: %d", config.Matching.MaxResults)
	}

	if config.Matching.QualityThreshold < 0 {
		return fmt.Errorf("matching.quality_threshold must not be negative, got: %g", config.Matching.QualityThreshold)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	for _, store := range config.Sources.Stores {
		if store.Name == "" || store.BaseURL == "" {
			return fmt.Errorf("every sources.stores entry needs a name and base_url")
		}
	}

	return nil
}
