// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string // "debug", "info", "warn", "error"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	DocumentTTL    time.Duration

	// S3-compatible object storage for export artifacts
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Headless Chrome
	ChromePath        string
	ChromeRemoteURL   string
	RenderTimeout     time.Duration
	RenderSettleDelay time.Duration

	// Exports
	ExportMaxAttempts  int
	ExportRetryBackoff time.Duration
	ExportBudget       time.Duration // wall-clock ceiling per export
	ExportURLTTL       time.Duration
	MaterializeURLTTL  time.Duration
	ExportLimitFree    int
	ExportLimitPro     int
	ExportRateLimit    int // per owner per minute
	AttributionText    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first when present; real environment variables win over it.
// Returns an error if a value does not parse or if critical values are
// missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "slidecraft"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "slidecraft"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		DocumentTTL:    p.duration("DOCUMENT_CACHE_TTL", 10*time.Minute),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "slidecraft-exports"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		ChromePath:        os.Getenv("CHROME_PATH"),
		ChromeRemoteURL:   os.Getenv("CHROME_REMOTE_URL"),
		RenderTimeout:     p.duration("RENDER_TIMEOUT", 30*time.Second),
		RenderSettleDelay: p.duration("RENDER_SETTLE_DELAY", 150*time.Millisecond),

		ExportMaxAttempts:  p.integer("EXPORT_MAX_ATTEMPTS", 3),
		ExportRetryBackoff: p.duration("EXPORT_RETRY_BACKOFF", 2*time.Second),
		ExportBudget:       p.duration("EXPORT_BUDGET", 5*time.Minute),
		ExportURLTTL:       p.duration("EXPORT_URL_TTL", time.Hour),
		MaterializeURLTTL:  p.duration("MATERIALIZE_URL_TTL", 15*time.Minute),
		ExportLimitFree:    p.integer("EXPORT_LIMIT_FREE", 10),
		ExportLimitPro:     p.integer("EXPORT_LIMIT_PRO", 500),
		ExportRateLimit:    p.integer("EXPORT_RATE_LIMIT", 5),
		AttributionText:    envOrDefault("ATTRIBUTION_TEXT", "Made with Slidecraft"),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser collects every malformed value so Load can report them together.
type parser struct {
	errs []error
}

func (p *parser) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a non-negative integer", key, v))
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return fallback
	}
	return d
}
