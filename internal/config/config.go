// Package config provides configuration management for Kindred.
// It loads settings from environment variables with the KINDRED_ prefix,
// optionally seeded from a .env file, and provides defaults for every option.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceSheets = "sheets"
	SourceStore  = "store"
)

// Storage engines.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration settings for the Kindred application.
type Config struct {
	Server  ServerConfig
	Source  SourceConfig
	Storage StorageConfig
	Engine  EngineConfig
	Log     LogConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port      int     // Server port (default: 6464)
	Host      string  // Server host (default: 127.0.0.1)
	APIToken  string  // Bearer token required on /api when set
	RateLimit float64 // Requests per second per client, 0 disables (default: 20)
	RateBurst int     // Burst size for the rate limiter (default: 40)
}

// SourceConfig selects where the family tree rows come from.
type SourceConfig struct {
	Kind       string // file, sheets or store (default: file)
	Path       string // Tree file for the file source (default: ./tree.csv)
	SkipHeader bool   // Drop the first CSV/TSV record (default: true)
	Watch      bool   // Reload when the tree file changes (default: true)

	SheetID         string // Spreadsheet id for the sheets source
	SheetRange      string // A1 range (default: Tree!B4:F100)
	CredentialsFile string // Service account JSON for the sheets source
	APIKey          string // API key for public sheets

	BreakerFailures int           // Consecutive failures before the circuit opens (default: 3)
	BreakerTimeout  time.Duration // Time the circuit stays open (default: 30s)

	// Mirror saves every successful remote fetch to storage and serves the
	// stored tree when the remote is unreachable (default: true).
	Mirror bool
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // sqlite or postgres (default: sqlite)
	DataPath      string // Directory for the SQLite database (default: ./data)
	PostgresDSN   string // Connection string for the postgres engine
	SnapshotKeep  int    // SQLite snapshots kept before an import replaces the tree; 0 disables (default: 10)
}

// SQLitePath returns the database file inside DataPath.
func (s StorageConfig) SQLitePath() string {
	return filepath.Join(s.DataPath, "kindred.db")
}

// SnapshotDir returns the directory holding SQLite snapshots.
func (s StorageConfig) SnapshotDir() string {
	return filepath.Join(s.DataPath, "backups")
}

// EngineConfig tunes the relationship engine.
type EngineConfig struct {
	CacheSize int // Selections kept in the LRU cache (default: 64)
}

// LogConfig controls the global logger.
type LogConfig struct {
	Env   string // production or development (default: development)
	Level string // Overrides the environment's default level when set
}

// LoadConfig loads configuration from environment variables with defaults
// and validates it. envFiles are read first with godotenv; variables already
// set in the environment win. Without envFiles, ./.env is read when present.
func LoadConfig(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("config: failed to read env file: %w", err)
	}

	cfg := buildBaseConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	}

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: KINDRED_TREE_PATH is required for the file source", ErrInvalidConfig)
		}
	case SourceSheets:
		if c.Source.SheetID == "" {
			return fmt.Errorf("%w: KINDRED_SHEET_ID is required for the sheets source", ErrInvalidConfig)
		}
	case SourceStore:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source.Kind)
	}

	switch c.Storage.StorageEngine {
	case EngineSQLite:
	case EnginePostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("%w: KINDRED_POSTGRES_DSN is required for the postgres engine", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage engine %q", ErrInvalidConfig, c.Storage.StorageEngine)
	}

	if c.Storage.SnapshotKeep < 0 {
		return fmt.Errorf("%w: snapshot keep must not be negative", ErrInvalidConfig)
	}

	if c.Engine.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// buildBaseConfig constructs a Config with values from environment variables
// and defaults.
func buildBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      getEnvInt("KINDRED_PORT", 6464),
			Host:      getEnv("KINDRED_HOST", "127.0.0.1"),
			APIToken:  getEnv("KINDRED_API_TOKEN", ""),
			RateLimit: getEnvFloat("KINDRED_RATE_LIMIT", 20),
			RateBurst: getEnvInt("KINDRED_RATE_BURST", 40),
		},
		Source: SourceConfig{
			Kind:            getEnv("KINDRED_SOURCE", SourceFile),
			Path:            getEnv("KINDRED_TREE_PATH", "./tree.csv"),
			SkipHeader:      getEnvBool("KINDRED_SKIP_HEADER", true),
			Watch:           getEnvBool("KINDRED_WATCH", true),
			SheetID:         getEnv("KINDRED_SHEET_ID", ""),
			SheetRange:      getEnv("KINDRED_SHEET_RANGE", "Tree!B4:F100"),
			CredentialsFile: getEnv("KINDRED_GOOGLE_CREDENTIALS", ""),
			APIKey:          getEnv("KINDRED_GOOGLE_API_KEY", ""),
			BreakerFailures: getEnvInt("KINDRED_BREAKER_FAILURES", 3),
			BreakerTimeout:  getEnvDuration("KINDRED_BREAKER_TIMEOUT", 30*time.Second),
			Mirror:          getEnvBool("KINDRED_MIRROR", true),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("KINDRED_STORAGE_ENGINE", EngineSQLite),
			DataPath:      getEnv("KINDRED_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("KINDRED_POSTGRES_DSN", ""),
			SnapshotKeep:  getEnvInt("KINDRED_SNAPSHOT_KEEP", 10),
		},
		Engine: EngineConfig{
			CacheSize: getEnvInt("KINDRED_CACHE_SIZE", 64),
		},
		Log: LogConfig{
			Env:   getEnv("KINDRED_ENV", "development"),
			Level: getEnv("KINDRED_LOG_LEVEL", ""),
		},
	}
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration syntax ("45s", "2m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
