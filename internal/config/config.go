// Package config holds the tunables the text-storage and highlighting core
// recognizes: the chunk tree's leaf bound, the highlighter's parse-size cap,
// and its default viewport context.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults, per spec ("N: max leaf size of the chunk tree").
const (
	DefaultLeafSize      = 4096
	DefaultMaxParseBytes = 1 << 20 // 1 MiB
	DefaultContextBytes  = 4 << 10 // 4 KiB
	minLeafSize          = 1
)

// CoreConfig holds the three options the core recognizes.
type CoreConfig struct {
	// LeafSize is N, the chunk tree's maximum leaf length. Must be >= 1.
	LeafSize int

	// MaxParseBytes bounds a single viewport parse; oversize windows return
	// empty spans rather than blocking.
	MaxParseBytes int

	// DefaultContextBytes is how far past the viewport edges parseRegion
	// reads, so scrolling by a line rarely re-parses from scratch.
	DefaultContextBytes int
}

// DefaultCoreConfig returns the spec's documented defaults.
func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		LeafSize:            DefaultLeafSize,
		MaxParseBytes:       DefaultMaxParseBytes,
		DefaultContextBytes: DefaultContextBytes,
	}
}

// NewCoreConfig validates cfg. N == 0 (or negative) is a construction error,
// per the core's error-handling design: it is a programmer bug, not a value
// to clamp silently.
func NewCoreConfig(cfg CoreConfig) (CoreConfig, error) {
	if cfg.LeafSize < minLeafSize {
		return CoreConfig{}, fmt.Errorf("config: leaf size must be >= %d, got %d", minLeafSize, cfg.LeafSize)
	}
	if cfg.MaxParseBytes <= 0 {
		return CoreConfig{}, fmt.Errorf("config: max parse bytes must be positive, got %d", cfg.MaxParseBytes)
	}
	if cfg.DefaultContextBytes < 0 {
		return CoreConfig{}, fmt.Errorf("config: default context bytes must be >= 0, got %d", cfg.DefaultContextBytes)
	}
	return cfg, nil
}

// LoadCoreConfigFromEnv loads configuration from environment variables,
// falling back to DefaultCoreConfig for anything unset or unparsable. A
// value that parses but is out of range is rejected by NewCoreConfig.
//
// Recognized variables:
//   - FRESH_LEAF_SIZE: chunk tree leaf bound N (default 4096)
//   - FRESH_MAX_PARSE_BYTES: highlighter parse cap in bytes (default 1048576)
//   - FRESH_CONTEXT_BYTES: highlighter viewport context in bytes (default 4096)
func LoadCoreConfigFromEnv() (CoreConfig, error) {
	cfg := DefaultCoreConfig()

	if v := os.Getenv("FRESH_LEAF_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LeafSize = n
		}
	}
	if v := os.Getenv("FRESH_MAX_PARSE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxParseBytes = n
		}
	}
	if v := os.Getenv("FRESH_CONTEXT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultContextBytes = n
		}
	}

	return NewCoreConfig(cfg)
}

// WithLeafSize returns a copy of cfg with LeafSize set.
func (c CoreConfig) WithLeafSize(n int) CoreConfig {
	c.LeafSize = n
	return c
}

// WithMaxParseBytes returns a copy of cfg with MaxParseBytes set.
func (c CoreConfig) WithMaxParseBytes(n int) CoreConfig {
	c.MaxParseBytes = n
	return c
}

// WithDefaultContextBytes returns a copy of cfg with DefaultContextBytes set.
func (c CoreConfig) WithDefaultContextBytes(n int) CoreConfig {
	c.DefaultContextBytes = n
	return c
}
