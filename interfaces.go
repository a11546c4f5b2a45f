// interfaces.go: public interfaces for hood
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

// EvictionCallback is invoked exactly once for every entry the cache evicts
// or clears, right before its slot is reclaimed. The key and value are
// borrowed: the callback must not retain references to them, must not fail
// and must not call back into the cache that invoked it.
//
// State the callback needs (what a C API would pass as a context pointer)
// is captured by the closure.
type EvictionCallback[K, V any] func(key K, value V)

// InsertResult reports the outcome of Table.Insert.
type InsertResult uint8

const (
	// RejectedFull means the table had no room and was not allowed to grow.
	// It is information for the caller, not a fault of the table.
	RejectedFull InsertResult = iota

	// Inserted means the key was new and now occupies a slot.
	Inserted

	// Updated means the key was already present and its value was replaced.
	Updated
)

// Stored reports whether the key is present in the table after the insert.
func (r InsertResult) Stored() bool {
	return r == Inserted || r == Updated
}

// String returns a readable name for the result.
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case RejectedFull:
		return "rejected-full"
	default:
		return "unknown"
	}
}

// GrowthPolicy controls whether a Table may resize itself.
type GrowthPolicy uint8

const (
	// GrowthAllowed lets the table double its capacity when the load
	// factor threshold would be exceeded.
	GrowthAllowed GrowthPolicy = iota

	// GrowthForbidden pins the table to its initial capacity. Inserts into
	// a full table return RejectedFull.
	GrowthForbidden
)

// LoadFactorTuner is implemented by anything whose load factor threshold
// can be changed at runtime (see HotConfig).
type LoadFactorTuner interface {
	SetMaxLoadFactor(factor float64) error
}

// CacheStats provides statistics about cache behaviour.
type CacheStats struct {
	// Hits is the number of Find calls that located their key
	Hits uint64

	// Misses is the number of Find calls that did not
	Misses uint64

	// Inserts is the number of successful Insert calls (new keys and updates)
	Inserts uint64

	// Deletes is the number of explicit Delete calls that removed an entry
	Deletes uint64

	// Evictions is the number of entries removed to make room for new ones
	Evictions uint64

	// Cleared is the number of entries removed by Clear
	Cleared uint64

	// Size is the current number of live entries
	Size int

	// Capacity is the number of slots (the maximum number of entries)
	Capacity int
}

// HitRatio returns the cache hit ratio as a percentage (0-100).
// Returns 0.0 if no Find operations have been performed yet.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// TableStats describes the shape of a table's probe sequences.
type TableStats struct {
	Size         int
	Capacity     int
	Tombstones   int
	LoadFactor   float64
	MaxProbe     int     // largest probe distance of any live entry
	MeanProbe    float64 // average probe distance over live entries
	Resizes      uint64
	Purges       uint64 // same-capacity rehashes that dropped tombstones
	Displacement uint64 // total Robin Hood swaps performed by inserts
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// MetricsCollector defines an interface for collecting cache operation metrics.
// Implementations can send metrics to Prometheus, OpenTelemetry or any other
// monitoring system. The cache calls it synchronously from the operation
// being measured, so implementations must be fast.
type MetricsCollector interface {
	// RecordGet records a Find with its latency and hit/miss result.
	RecordGet(latencyNs int64, hit bool)

	// RecordSet records an Insert with its latency (eviction included).
	RecordSet(latencyNs int64)

	// RecordDelete records an explicit Delete with its latency.
	RecordDelete(latencyNs int64)

	// RecordEviction records one entry evicted to make room.
	RecordEviction()
}

// NoOpMetricsCollector is a metrics collector that does nothing.
type NoOpMetricsCollector struct{}

// RecordGet does nothing.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordSet does nothing.
func (NoOpMetricsCollector) RecordSet(latencyNs int64) {}

// RecordDelete does nothing.
func (NoOpMetricsCollector) RecordDelete(latencyNs int64) {}

// RecordEviction does nothing.
func (NoOpMetricsCollector) RecordEviction() {}
