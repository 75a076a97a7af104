package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/nivaranhq/nivaran/internal/identity"
	"github.com/nivaranhq/nivaran/internal/intake"
	"github.com/nivaranhq/nivaran/internal/sentiment"
	"github.com/nivaranhq/nivaran/internal/verification"
	"github.com/nivaranhq/nivaran/pkg/database"
	"github.com/nivaranhq/nivaran/pkg/oracle"
	"github.com/nivaranhq/nivaran/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvNivaranEnv             = "NIVARAN_ENV"
	EnvNivaranShutdownTimeout = "NIVARAN_SHUTDOWN_TIMEOUT"
	EnvNivaranVersion         = "NIVARAN_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "NIVARAN_DB_HOST",
	Port:            "NIVARAN_DB_PORT",
	Name:            "NIVARAN_DB_NAME",
	User:            "NIVARAN_DB_USER",
	Password:        "NIVARAN_DB_PASSWORD",
	SSLMode:         "NIVARAN_DB_SSL_MODE",
	MaxOpenConns:    "NIVARAN_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "NIVARAN_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "NIVARAN_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "NIVARAN_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "NIVARAN_STORAGE_CONTAINER_NAME",
	ConnectionString: "NIVARAN_STORAGE_CONNECTION_STRING",
}

var oracleEnv = &oracle.Env{
	BaseURL:     "NIVARAN_ORACLE_BASE_URL",
	APIKey:      "NIVARAN_ORACLE_API_KEY",
	Model:       "NIVARAN_ORACLE_MODEL",
	VisionModel: "NIVARAN_ORACLE_VISION_MODEL",
	Timeout:     "NIVARAN_ORACLE_TIMEOUT",
}

var identityEnv = &identity.Env{
	Issuer:   "NIVARAN_OIDC_ISSUER",
	ClientID: "NIVARAN_OIDC_CLIENT_ID",
	DevToken: "NIVARAN_DEV_TOKEN",
}

var intakeEnv = &intake.Env{
	PoliticianID: "NIVARAN_INTAKE_POLITICIAN_ID",
}

// Config is the root configuration for the Nivaran service.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        database.Config     `toml:"database"`
	Storage         storage.Config      `toml:"storage"`
	Oracle          oracle.Config       `toml:"oracle"`
	Identity        identity.Config     `toml:"identity"`
	Verification    verification.Config `toml:"verification"`
	Sentiment       sentiment.Config    `toml:"sentiment"`
	Intake          intake.Config       `toml:"intake"`
	API             APIConfig           `toml:"api"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
}

// Env returns the NIVARAN_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvNivaranEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Oracle.Merge(&overlay.Oracle)
	c.Identity.Merge(&overlay.Identity)
	c.Verification.Merge(&overlay.Verification)
	c.Sentiment.Merge(&overlay.Sentiment)
	c.Intake.Merge(&overlay.Intake)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Oracle.Finalize(oracleEnv); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Verification.Finalize(); err != nil {
		return fmt.Errorf("verification: %w", err)
	}
	if err := c.Sentiment.Finalize(); err != nil {
		return fmt.Errorf("sentiment: %w", err)
	}
	if err := c.Intake.Finalize(intakeEnv); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvNivaranShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvNivaranVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvNivaranEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
