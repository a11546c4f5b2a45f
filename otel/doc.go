// Package otel provides OpenTelemetry integration for hood cache metrics.
//
// # Overview
//
// This package implements the hood.MetricsCollector interface using
// OpenTelemetry, so Find/Insert/Delete latencies, hit ratios and evictions
// can be exported to Prometheus, Jaeger, DataDog or any other OTEL backend.
//
// The package is a separate module to keep the hood core lightweight.
// Applications that don't need metrics collection don't pay for the OTEL
// dependencies.
//
// # Installation
//
//	go get github.com/agilira/hood/otel
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/hood"
//	    hoodotel "github.com/agilira/hood/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := hoodotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache, err := hood.NewCache[string, User](hood.Config{
//	    Capacity:         10_000,
//	    MetricsCollector: collector,
//	}, nil)
//
//	// Gauges need a concurrency-safe stats source
//	locked := hood.NewLocked(cache)
//	reg, err := collector.ObserveStats(locked.Stats)
//	defer reg.Unregister()
//
// # Metrics Exposed
//
// Histograms (nanoseconds):
//   - hood_find_latency_ns: Find latency, hits and misses alike
//   - hood_insert_latency_ns: Insert latency, including any eviction it caused
//   - hood_delete_latency_ns: Delete latency
//
// Counters:
//   - hood_find_hits_total, hood_find_misses_total
//   - hood_evictions_total: entries removed to make room
//
// Gauges (registered by ObserveStats):
//   - hood_size, hood_capacity
//   - hood_hit_ratio: percentage, 0-100
//
// # Prometheus Queries
//
//	# hit ratio over 5 minutes
//	rate(hood_find_hits_total[5m]) /
//	  (rate(hood_find_hits_total[5m]) + rate(hood_find_misses_total[5m]))
//
//	# p99 insert latency
//	histogram_quantile(0.99, rate(hood_insert_latency_ns_bucket[5m]))
//
//	# eviction pressure
//	rate(hood_evictions_total[1m])
//
// # Thread Safety
//
// OTEL instruments are safe for concurrent use, so one collector may serve
// several caches. Use WithMeterName to tell their metrics apart.
package otel
