package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
	Alerts   AlertConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"pricehunt"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// APIKey guards the admin endpoints.
	APIKey    string        `env:"API_KEY"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// S3Config holds AWS S3 configuration for retailer price feeds.
type S3Config struct {
	Enabled bool   `env:"S3_ENABLED" envDefault:"false"`
	Bucket  string `env:"S3_BUCKET"`
	Region  string `env:"S3_REGION" envDefault:"us-east-1"`
	Prefix  string `env:"S3_PREFIX" envDefault:"feeds/"` // Path prefix within bucket
}

// CatalogConfig holds the in-memory catalogue and startup feed settings.
type CatalogConfig struct {
	SeedPath  string   `env:"CATALOG_SEED_PATH" envDefault:"data/catalog.yaml"`
	FeedPaths []string `env:"FEED_PATHS" envSeparator:","`
}

// AlertConfig holds price alert checker configuration.
type AlertConfig struct {
	CheckInterval time.Duration `env:"ALERT_CHECK_INTERVAL" envDefault:"5m"`
	Workers       int           `env:"ALERT_WORKERS" envDefault:"4"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 bytes")
	}

	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Alerts.CheckInterval <= 0 {
		return fmt.Errorf("alert check interval must be positive")
	}

	if c.Alerts.Workers < 1 {
		return fmt.Errorf("alert workers must be at least 1")
	}

	for _, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS allowed origins must not contain empty entries")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
