package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultFile is the optional YAML file read before environment overrides.
const DefaultFile = "config.yaml"

// Config holds all runtime configuration for the BOM report binaries.
// Values come from config.yaml when present; environment variables always win.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Report   ReportConfig   `yaml:"report"`

	// DefaultOrganizationID selects the organization used by the CLI and the
	// health endpoint. Empty means "the only organization in the database".
	DefaultOrganizationID string `yaml:"default_organization_id" env:"DEFAULT_ORGANIZATION_ID" env-default:""`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	AllowedOrigins string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:""`
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	URL      string `yaml:"-" env:"DATABASE_URL"` // Secret - not in YAML
	MaxConns int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	MinConns int32  `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"1"`
}

// ReportConfig tunes the approved BOM pipeline.
type ReportConfig struct {
	ChunkSize int `yaml:"chunk_size" env:"BOM_CHUNK_SIZE" env-default:"200"`
	PageSize  int `yaml:"page_size" env:"REPORT_PAGE_SIZE" env-default:"10"`
}

// Load reads .env (if any), then path (if it exists), then the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("pool bounds out of range: min=%d max=%d", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Report.ChunkSize < 1 {
		return fmt.Errorf("BOM_CHUNK_SIZE must be positive, got %d", c.Report.ChunkSize)
	}
	if c.Report.PageSize < 1 {
		return fmt.Errorf("REPORT_PAGE_SIZE must be positive, got %d", c.Report.PageSize)
	}
	if id := c.DefaultOrganizationID; id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("DEFAULT_ORGANIZATION_ID %q is not a UUID", id)
		}
	}
	return nil
}

// IsLocal reports whether the process runs in a developer environment.
func (c *Config) IsLocal() bool {
	switch strings.ToLower(c.Env) {
	case "", "local", "dev", "development", "test":
		return true
	}
	return false
}
