// Package timeouts holds the per-operation deadlines used by handlers and
// startup code. Values are set once from config and read concurrently.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds timeout values. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration // health probes
	Short  time.Duration // single-document reads and writes
	Medium time.Duration // list queries with counts
	Long   time.Duration // uploads and bulk writes
}

// Defaults is the configuration in effect until Configure is called.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
	Long:   30 * time.Second,
}

var (
	mu      sync.RWMutex
	current = Defaults
)

func read(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(current)
}

func Ping() time.Duration   { return read(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return read(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return read(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return read(func(c Config) time.Duration { return c.Long }) }

// Configure overrides the non-zero values of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
	if cfg.Long > 0 {
		current.Long = cfg.Long
	}
}

// Reset restores Defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Defaults
}

// Current returns the configuration in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout derives a context with the given deadline. The returned cancel
// logs a warning when the deadline was hit.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
