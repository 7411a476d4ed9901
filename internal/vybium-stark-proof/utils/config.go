package utils

import (
	"fmt"
	"strings"
)

// Config represents the configuration shared by the CLI and the scoring service
type Config struct {
	// Commitment hash the proofs were generated with
	HashFunction string // "sha3", "blake2b" or "tip5"

	// Numeric backend used by the security estimator
	NumericBackend string // "host" or "portable"

	// Collision resistance override in bits (0 means: take it from the hash function)
	CollisionResistance uint32

	// Address the scoring service listens on
	ListenAddr string

	// Log level ("debug", "info", "warn", "error")
	LogLevel string
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() *Config {
	return &Config{
		HashFunction:        "sha3",
		NumericBackend:      "host",
		CollisionResistance: 0,
		ListenAddr:          "0.0.0.0:8010",
		LogLevel:            "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.HashFunction {
	case "sha3", "blake2b", "tip5":
	default:
		return fmt.Errorf("hash function must be 'sha3', 'blake2b', or 'tip5', got '%s'", c.HashFunction)
	}

	switch c.NumericBackend {
	case "host", "portable":
	default:
		return fmt.Errorf("numeric backend must be 'host' or 'portable', got '%s'", c.NumericBackend)
	}

	if c.CollisionResistance > 512 {
		return fmt.Errorf("collision resistance of %d bits is not plausible for any supported hash", c.CollisionResistance)
	}

	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got '%s'", c.LogLevel)
	}

	return nil
}

// WithHashFunction sets the hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// WithNumericBackend sets the numeric backend
func (c *Config) WithNumericBackend(backend string) *Config {
	c.NumericBackend = backend
	return c
}

// WithCollisionResistance overrides the collision resistance of the hash function
func (c *Config) WithCollisionResistance(bits uint32) *Config {
	c.CollisionResistance = bits
	return c
}

// WithListenAddr sets the listen address
func (c *Config) WithListenAddr(addr string) *Config {
	c.ListenAddr = addr
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
