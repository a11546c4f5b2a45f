// collector.go: OpenTelemetry implementation of hood.MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"
	"errors"

	"github.com/agilira/hood"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements hood.MetricsCollector using OpenTelemetry.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	meter metric.Meter

	findLatency   metric.Int64Histogram
	insertLatency metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/hood"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// This is useful for distinguishing metrics from multiple cache instances
// or integrating with existing OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// The collector creates the following OTEL instruments:
//   - Int64Histogram for latencies (Find, Insert, Delete)
//   - Int64Counter for hits, misses, evictions
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/hood",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{meter: meter}

	var err error
	collector.findLatency, err = meter.Int64Histogram(
		"hood_find_latency_ns",
		metric.WithDescription("Latency of Find operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.insertLatency, err = meter.Int64Histogram(
		"hood_insert_latency_ns",
		metric.WithDescription("Latency of Insert operations in nanoseconds, eviction included"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.deleteLatency, err = meter.Int64Histogram(
		"hood_delete_latency_ns",
		metric.WithDescription("Latency of Delete operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"hood_find_hits_total",
		metric.WithDescription("Total number of Find calls that located their key"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"hood_find_misses_total",
		metric.WithDescription("Total number of Find calls that did not"),
	)
	if err != nil {
		return nil, err
	}

	collector.evictions, err = meter.Int64Counter(
		"hood_evictions_total",
		metric.WithDescription("Total number of entries evicted to make room"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a Find with its latency and hit/miss result.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.findLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records an Insert with its latency.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.insertLatency.Record(context.Background(), latencyNs)
}

// RecordDelete records an explicit Delete with its latency.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordEviction increments the evictions counter.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

// ObserveStats registers asynchronous gauges fed by stats on every
// collection: hood_size, hood_capacity and hood_hit_ratio.
//
// stats is called from the exporter's goroutine, so it must be safe to call
// concurrently with cache operations; hood.Locked.Stats is. Unregister the
// returned registration when the cache is closed.
func (c *OTelMetricsCollector) ObserveStats(stats func() hood.CacheStats) (metric.Registration, error) {
	if stats == nil {
		return nil, errors.New("stats function cannot be nil")
	}

	size, err := c.meter.Int64ObservableGauge(
		"hood_size",
		metric.WithDescription("Current number of cached entries"),
	)
	if err != nil {
		return nil, err
	}
	capacity, err := c.meter.Int64ObservableGauge(
		"hood_capacity",
		metric.WithDescription("Maximum number of cached entries"),
	)
	if err != nil {
		return nil, err
	}
	hitRatio, err := c.meter.Float64ObservableGauge(
		"hood_hit_ratio",
		metric.WithDescription("Find hit ratio as a percentage"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, err
	}

	return c.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := stats()
		o.ObserveInt64(size, int64(st.Size))
		o.ObserveInt64(capacity, int64(st.Capacity))
		o.ObserveFloat64(hitRatio, st.HitRatio())
		return nil
	}, size, capacity, hitRatio)
}

// Compile-time interface check
var _ hood.MetricsCollector = (*OTelMetricsCollector)(nil)
