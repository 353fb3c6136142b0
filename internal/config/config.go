package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the dineguide service.
// Environment variables are parsed with the DINEGUIDE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort           int      `envconfig:"HTTP_PORT" default:"8080"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxUploadMB        int64    `envconfig:"MAX_UPLOAD_MB" default:"20"`
	AdminAPIKey        string   `envconfig:"ADMIN_API_KEY" default:""`

	// Storage
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"dineguide.db"`

	// Listing
	PageSize int `envconfig:"PAGE_SIZE" default:"16"`

	// Content cache; empty address disables it
	RedisAddr       string `envconfig:"REDIS_ADDR" default:""`
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" default:"60"`

	// Change events; no brokers means the in-process bus
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"dineguide.changes"`

	// Media
	MediaDriver  string `envconfig:"MEDIA_DRIVER" default:"disk"`
	MediaDir     string `envconfig:"MEDIA_DIR" default:"media"`
	MediaBaseURL string `envconfig:"MEDIA_BASE_URL" default:"/media"`
	S3Bucket     string `envconfig:"S3_BUCKET" default:""`
	S3Region     string `envconfig:"S3_REGION" default:""`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:""`

	// Health and boot
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates driver selections and normalises list fields.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "", "sqlite":
		c.DBDriver = "sqlite"
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_DRIVER=sqlite requires SQLITE_PATH")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	c.MediaDriver = strings.ToLower(strings.TrimSpace(c.MediaDriver))
	switch c.MediaDriver {
	case "", "disk":
		c.MediaDriver = "disk"
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("MEDIA_DRIVER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_DRIVER: %s", c.MediaDriver)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	c.KafkaBrokers = compact(c.KafkaBrokers)
	c.CORSAllowedOrigins = compact(c.CORSAllowedOrigins)
	return nil
}

// CacheTTL returns the content cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HealthInterval returns the period between health probes.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

// HealthProbeTimeout returns the timeout of one health probe.
func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

// BootstrapTimeout bounds how long startup waits for the database.
func (c *Config) BootstrapTimeout() time.Duration {
	return time.Duration(c.BootstrapTimeoutSeconds) * time.Second
}

// MaxUploadBytes is the multipart body limit.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with DINEGUIDE_
// Example: DINEGUIDE_HTTP_PORT, DINEGUIDE_DB_DRIVER
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DINEGUIDE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("media_driver", cfg.MediaDriver).
		Int("page_size", cfg.PageSize).
		Bool("cache_enabled", cfg.RedisAddr != "").
		Int("kafka_brokers", len(cfg.KafkaBrokers)).
		Bool("admin_key_present", cfg.AdminAPIKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		CORSAllowedOrigins:        []string{"*"},
		MaxUploadMB:               5,
		AdminAPIKey:               "test-admin-key",
		DBDriver:                  "sqlite",
		SQLitePath:                ":memory:",
		PageSize:                  16,
		CacheTTLSeconds:           60,
		KafkaTopic:                "dineguide.changes",
		MediaDriver:               "disk",
		MediaDir:                  "media",
		MediaBaseURL:              "/media",
		LogLevel:                  "debug",
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
		BootstrapTimeoutSeconds:   5,
	}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
