package config

import (
	"fmt"
	"os"
	"path/filepath"
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

// Prefix is the environment variable prefix consumed by New.
const Prefix = "ECFR_DASHBOARD"

// Config holds the configuration for the dashboard backend.
// Environment variables are automatically parsed from ECFR_DASHBOARD_ prefix
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPPort       int      `envconfig:"HTTP_PORT" default:"4000"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`
	MaxUploadBytes int64    `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`

	// Local state. Relative DataDir and ImageDir are resolved against BaseDir.
	BaseDir  string `envconfig:"BASE_DIR" default:""`
	DataDir  string `envconfig:"DATA_DIR" default:"data"`
	ImageDir string `envconfig:"IMAGE_DIR" default:""`

	// StaleAfter is the age after which a cached upstream file is refetched.
	StaleAfter time.Duration `envconfig:"STALE_AFTER" default:"24h"`

	// CollectionLocking serializes read-modify-write cycles per collection file.
	CollectionLocking bool `envconfig:"COLLECTION_LOCKING" default:"false"`

	// Upstream eCFR API
	UpstreamBaseURL string        `envconfig:"UPSTREAM_BASE_URL" default:"https://www.ecfr.gov"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"0s"`

	// Health probes
	HealthProbeTimeout time.Duration `envconfig:"HEALTH_PROBE_TIMEOUT" default:"2s"`
}

// ResolveDefaults makes BaseDir absolute and derives DataDir and ImageDir from it.
// An empty BaseDir is taken from the working directory once, at load time.
func (c *Config) ResolveDefaults() error {
	if c.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve base dir: %w", err)
		}
		c.BaseDir = wd
	}
	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return fmt.Errorf("resolve base dir: %w", err)
	}
	c.BaseDir = base

	if c.DataDir == "" {
		c.DataDir = "data"
	}
	c.DataDir = c.resolve(c.DataDir)

	if c.ImageDir == "" {
		c.ImageDir = filepath.Join(c.DataDir, "images")
	}
	c.ImageDir = c.resolve(c.ImageDir)

	if c.StaleAfter <= 0 {
		return fmt.Errorf("unsupported STALE_AFTER: %s", c.StaleAfter)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("unsupported MAX_UPLOAD_BYTES: %d", c.MaxUploadBytes)
	}
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	return nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.BaseDir, p)
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with ECFR_DASHBOARD_
// Example: ECFR_DASHBOARD_DATA_DIR, ECFR_DASHBOARD_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("data_dir", cfg.DataDir).
		Str("image_dir", cfg.ImageDir).
		Dur("stale_after", cfg.StaleAfter).
		Bool("collection_locking", cfg.CollectionLocking).
		Str("upstream_base_url", cfg.UpstreamBaseURL).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config rooted at dir, usually t.TempDir().
func NewForTesting(dir string) *Config {
	cfg := &Config{
		Environment:        EnvTesting,
		LogLevel:           "debug",
		HTTPPort:           4000,
		CORSOrigins:        []string{"*"},
		MaxUploadBytes:     1 << 20,
		BaseDir:            dir,
		DataDir:            "data",
		StaleAfter:         24 * time.Hour,
		UpstreamBaseURL:    "http://127.0.0.1:0",
		HealthProbeTimeout: time.Second,
	}
	_ = cfg.ResolveDefaults()
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
