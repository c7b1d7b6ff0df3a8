package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/truora/minisql/interpreter/sql"
)

const (
	// DefaultAddr is the TCP listen address of minisqld
	DefaultAddr = "127.0.0.1:7878"
	// DefaultHTTPAddr is the HTTP listen address of minisqld
	DefaultHTTPAddr = "127.0.0.1:7879"
	// DefaultMaxStatementSize bounds the bytes buffered for one statement
	DefaultMaxStatementSize = 64 * 1024
)

// ErrNoListener when neither the TCP nor the HTTP address is set
var ErrNoListener = errors.New("no listen address configured")

// Config holds the server settings
type Config struct {
	// Addr is the TCP address, empty disables the listener
	Addr string
	// HTTPAddr is the HTTP address, empty disables the listener
	HTTPAddr string
	// MaxStatementSize bounds the bytes buffered for one statement
	MaxStatementSize int
	// MaxDepth bounds expression nesting. Zero means sql.DefaultMaxDepth,
	// negative disables the guard.
	MaxDepth int
	// Debug logs every parsed statement
	Debug bool
}

// DefaultConfig returns the settings used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Addr:             DefaultAddr,
		HTTPAddr:         DefaultHTTPAddr,
		MaxStatementSize: DefaultMaxStatementSize,
		MaxDepth:         sql.DefaultMaxDepth,
	}
}

// LoadEnv overrides the settings with the MINISQL_* variables found by lookup.
// os.LookupEnv is the usual lookup.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MINISQL_ADDR"); ok {
		c.Addr = v
	}

	if v, ok := lookup("MINISQL_HTTP_ADDR"); ok {
		c.HTTPAddr = v
	}

	if v, ok := lookup("MINISQL_MAX_STATEMENT_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MINISQL_MAX_STATEMENT_SIZE: %w", err)
		}

		c.MaxStatementSize = n
	}

	if v, ok := lookup("MINISQL_MAX_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MINISQL_MAX_DEPTH: %w", err)
		}

		c.MaxDepth = n
	}

	if v, ok := lookup("MINISQL_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINISQL_DEBUG: %w", err)
		}

		c.Debug = debug
	}

	return c.Validate()
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	if c.MaxStatementSize <= 0 {
		return fmt.Errorf("max statement size must be positive, got %d", c.MaxStatementSize)
	}

	if c.Addr == "" && c.HTTPAddr == "" {
		return ErrNoListener
	}

	return nil
}
