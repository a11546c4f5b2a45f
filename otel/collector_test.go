// collector_test.go: tests for the OpenTelemetry metrics collector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/agilira/hood"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestCollector(t *testing.T, opts ...Option) (*OTelMetricsCollector, *metric.ManualReader) {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shutdown provider: %v", err)
		}
	})

	collector, err := NewOTelMetricsCollector(provider, opts...)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	return collector, reader
}

func collect(t *testing.T, reader *metric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func histogramCount(t *testing.T, rm metricdata.ResourceMetrics, name string) uint64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	if !ok {
		t.Fatalf("%s metric not found", name)
	}
	hist, ok := m.Data.(metricdata.Histogram[int64])
	if !ok {
		t.Fatalf("Expected Histogram[int64] for %s, got %T", name, m.Data)
	}
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	return total
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	if !ok {
		t.Fatalf("%s metric not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("Expected Sum[int64] for %s, got %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

// TestNewOTelMetricsCollector_NilProvider tests error handling with nil provider
func TestNewOTelMetricsCollector_NilProvider(t *testing.T) {
	collector, err := NewOTelMetricsCollector(nil)
	if err == nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return error")
	}
	if collector != nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return nil collector")
	}
}

// TestOTelMetricsCollector_RecordGet tests Find metrics
func TestOTelMetricsCollector_RecordGet(t *testing.T) {
	collector, reader := newTestCollector(t)

	collector.RecordGet(1000, true)
	collector.RecordGet(2000, false)
	collector.RecordGet(1500, true)

	rm := collect(t, reader)
	if got := histogramCount(t, rm, "hood_find_latency_ns"); got != 3 {
		t.Errorf("Expected 3 finds, got %d", got)
	}
	if got := counterValue(t, rm, "hood_find_hits_total"); got != 2 {
		t.Errorf("Expected 2 hits, got %d", got)
	}
	if got := counterValue(t, rm, "hood_find_misses_total"); got != 1 {
		t.Errorf("Expected 1 miss, got %d", got)
	}
}

// TestOTelMetricsCollector_RecordSetDelete tests Insert and Delete histograms
func TestOTelMetricsCollector_RecordSetDelete(t *testing.T) {
	collector, reader := newTestCollector(t)

	collector.RecordSet(500)
	collector.RecordSet(700)
	collector.RecordDelete(300)

	rm := collect(t, reader)
	if got := histogramCount(t, rm, "hood_insert_latency_ns"); got != 2 {
		t.Errorf("Expected 2 inserts, got %d", got)
	}
	if got := histogramCount(t, rm, "hood_delete_latency_ns"); got != 1 {
		t.Errorf("Expected 1 delete, got %d", got)
	}
}

// TestOTelMetricsCollector_RecordEviction tests the eviction counter
func TestOTelMetricsCollector_RecordEviction(t *testing.T) {
	collector, reader := newTestCollector(t)

	for i := 0; i < 5; i++ {
		collector.RecordEviction()
	}

	rm := collect(t, reader)
	if got := counterValue(t, rm, "hood_evictions_total"); got != 5 {
		t.Errorf("Expected 5 evictions, got %d", got)
	}
}

// TestOTelMetricsCollector_Concurrent tests thread safety
func TestOTelMetricsCollector_Concurrent(t *testing.T) {
	collector, reader := newTestCollector(t)

	const goroutines, perWorker = 10, 100
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				collector.RecordGet(int64(i), i%2 == 0)
				collector.RecordSet(int64(i))
				collector.RecordEviction()
			}
		}()
	}
	wg.Wait()

	rm := collect(t, reader)
	if got := histogramCount(t, rm, "hood_find_latency_ns"); got != goroutines*perWorker {
		t.Errorf("Expected %d finds, got %d", goroutines*perWorker, got)
	}
	if got := counterValue(t, rm, "hood_evictions_total"); got != goroutines*perWorker {
		t.Errorf("Expected %d evictions, got %d", goroutines*perWorker, got)
	}
}

// TestOTelMetricsCollector_WithOptions tests the meter name option
func TestOTelMetricsCollector_WithOptions(t *testing.T) {
	collector, reader := newTestCollector(t, WithMeterName("sessions"))
	collector.RecordEviction()

	rm := collect(t, reader)
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("No scope metrics recorded")
	}
	if name := rm.ScopeMetrics[0].Scope.Name; name != "sessions" {
		t.Errorf("Expected meter name sessions, got %s", name)
	}
}

// TestOTelMetricsCollector_WithCache drives a real cache through the collector
func TestOTelMetricsCollector_WithCache(t *testing.T) {
	collector, reader := newTestCollector(t)

	cache, err := hood.NewCache[string, int](hood.Config{
		Capacity:         4,
		MetricsCollector: collector,
	}, nil)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	locked := hood.NewLocked(cache)

	reg, err := collector.ObserveStats(locked.Stats)
	if err != nil {
		t.Fatalf("ObserveStats failed: %v", err)
	}
	defer func() { _ = reg.Unregister() }()

	for i := 0; i < 6; i++ {
		locked.Insert(fmt.Sprint("key-", i), i)
	}
	locked.Find("key-5")
	locked.Find("absent")

	rm := collect(t, reader)
	if got := counterValue(t, rm, "hood_evictions_total"); got != 2 {
		t.Errorf("Expected 2 evictions, got %d", got)
	}
	if got := histogramCount(t, rm, "hood_insert_latency_ns"); got != 6 {
		t.Errorf("Expected 6 inserts, got %d", got)
	}

	m, ok := findMetric(rm, "hood_size")
	if !ok {
		t.Fatal("hood_size gauge not found")
	}
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	if !ok || len(gauge.DataPoints) != 1 || gauge.DataPoints[0].Value != 4 {
		t.Errorf("hood_size = %+v", m.Data)
	}

	m, ok = findMetric(rm, "hood_hit_ratio")
	if !ok {
		t.Fatal("hood_hit_ratio gauge not found")
	}
	ratio, ok := m.Data.(metricdata.Gauge[float64])
	if !ok || len(ratio.DataPoints) != 1 || ratio.DataPoints[0].Value != 50 {
		t.Errorf("hood_hit_ratio = %+v", m.Data)
	}
}

// TestObserveStats_Nil tests argument validation
func TestObserveStats_Nil(t *testing.T) {
	collector, _ := newTestCollector(t)
	if _, err := collector.ObserveStats(nil); err == nil {
		t.Error("ObserveStats(nil) should return error")
	}
}

func BenchmarkOTelMetricsCollector_RecordGet(b *testing.B) {
	provider := metric.NewMeterProvider(metric.WithReader(metric.NewManualReader()))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	collector, _ := NewOTelMetricsCollector(provider)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordGet(int64(i), i%2 == 0)
	}
}
