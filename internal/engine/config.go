package engine

import "fmt"

// Config holds configuration for the selection engine.
type Config struct {
	// CacheSize is the number of recent selections kept in memory (default: 64).
	// Zero disables caching.
	CacheSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheSize: 64,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", c.CacheSize)
	}
	return nil
}
