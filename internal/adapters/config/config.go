package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	News    NewsConfig    `envconfig:"NEWS"`
	Server  ServerConfig  `envconfig:"SERVER"`
	Logging LoggingConfig `envconfig:"LOGGING"`
}

// NewsConfig controls the aggregation core
type NewsConfig struct {
	CacheTimeout     time.Duration `envconfig:"NEWS_CACHE_TIMEOUT" default:"15m"`
	RequestTimeout   time.Duration `envconfig:"NEWS_REQUEST_TIMEOUT" default:"10s"`
	RefreshInterval  time.Duration `envconfig:"NEWS_REFRESH_INTERVAL" default:"5m"`
	DefaultLimit     int           `envconfig:"NEWS_DEFAULT_LIMIT" default:"100"`
	SentimentEnabled bool          `envconfig:"NEWS_SENTIMENT_ENABLED" default:"true"`
	ExtractSignals   bool          `envconfig:"NEWS_EXTRACT_SIGNALS" default:"true"`
	IncludeEconomic  bool          `envconfig:"NEWS_INCLUDE_ECONOMIC" default:"true"`
}

// ServerConfig controls the HTTP query surface
type ServerConfig struct {
	BindAddr        string        `envconfig:"SERVER_BIND_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from the environment, with an optional .env file
func Load() (*Config, error) {
	// Missing .env is fine; real deployments use the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.News.CacheTimeout <= 0 {
		return fmt.Errorf("cache timeout must be positive")
	}
	if c.News.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.News.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if c.News.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be at least 1")
	}
	if c.Server.BindAddr == "" {
		return fmt.Errorf("server bind address is required")
	}
	return nil
}
