// config.go: configuration for hood tables and caches
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters shared by Table and Cache.
type Config struct {
	// Capacity is the initial number of slots. For a Cache it is also the
	// maximum number of entries. Negative values are rejected.
	// Default: DefaultCapacity.
	Capacity int

	// MaxLoadFactor is the size/capacity ratio a growable table may reach
	// before it resizes. Must be in (0, 1]. Ignored by fixed-capacity tables.
	// Default: DefaultMaxLoadFactor.
	MaxLoadFactor float64

	// Seed keys the default hash function. If 0, a random seed is generated
	// per table.
	Seed uint64

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for latency measurements.
	// If nil, a go-timecache backed provider is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector

	// Abort is called with a HOOD_INVARIANT_VIOLATION error when the table
	// or cache detects a state its design rules out. It must not return
	// normally; if it does, the operation panics with the same error.
	// Default: log at Error level, then panic.
	Abort func(err error)
}

// Validate checks configuration parameters and applies sensible defaults.
//
// This method is automatically called by NewTable and NewCache.
//
// Default values applied:
//   - Capacity: DefaultCapacity if 0
//   - MaxLoadFactor: DefaultMaxLoadFactor if 0
//   - Seed: GenerateSeed() if 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
//   - Abort: log then panic if nil
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return NewErrInvalidCapacity(c.Capacity)
	}
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}

	if c.MaxLoadFactor == 0 {
		c.MaxLoadFactor = DefaultMaxLoadFactor
	}
	if !(c.MaxLoadFactor > 0 && c.MaxLoadFactor <= 1) {
		return NewErrInvalidLoadFactor(c.MaxLoadFactor)
	}

	if c.Seed == 0 {
		c.Seed = GenerateSeed()
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	if c.Abort == nil {
		c.Abort = panicAbort(c.Logger)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:         DefaultCapacity,
		MaxLoadFactor:    DefaultMaxLoadFactor,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// panicAbort is the default process-abort primitive.
func panicAbort(logger Logger) func(error) {
	return func(err error) {
		logger.Error("hood: aborting on invariant violation", "error", err, "context", GetErrorContext(err))
		panic(err)
	}
}

// systemTimeProvider is the default time provider using go-timecache.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
