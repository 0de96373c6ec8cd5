// Package config provides default configuration values for kvstore.
package config

import (
	"time"
)

// Default configuration constants
const (
	// Database defaults
	defaultQueryTimeoutSec = 30 // seconds

	// DefaultCacheCapacityBytes bounds the in-memory tier when no capacity
	// is configured. 16 MiB of key+value data.
	DefaultCacheCapacityBytes = 16 << 20
)

// DefaultConfig returns the default configuration values for kvstore.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			QueryTimeout: time.Second * defaultQueryTimeoutSec,
		},
		Cache: CacheConfig{
			CapacityBytes: DefaultCacheCapacityBytes,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console", // console or json
		},
	}
}
