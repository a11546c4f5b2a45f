// metrics.go: VictoriaMetrics-backed hood.MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/agilira/hood"
	"github.com/natefinch/atomic"
)

// vmCollector records cache operations into a private metrics.Set, so each
// run exports only its own series. Safe for concurrent use by all shards.
type vmCollector struct {
	set *metrics.Set

	findLatency   *metrics.Histogram
	insertLatency *metrics.Histogram
	deleteLatency *metrics.Histogram
	hits          *metrics.Counter
	misses        *metrics.Counter
	evictions     *metrics.Counter
}

func newVMCollector() *vmCollector {
	set := metrics.NewSet()
	return &vmCollector{
		set:           set,
		findLatency:   set.NewHistogram(`hood_op_duration_seconds{op="find"}`),
		insertLatency: set.NewHistogram(`hood_op_duration_seconds{op="insert"}`),
		deleteLatency: set.NewHistogram(`hood_op_duration_seconds{op="delete"}`),
		hits:          set.NewCounter(`hood_find_total{result="hit"}`),
		misses:        set.NewCounter(`hood_find_total{result="miss"}`),
		evictions:     set.NewCounter(`hood_evictions_total`),
	}
}

func (c *vmCollector) RecordGet(latencyNs int64, hit bool) {
	c.findLatency.Update(float64(latencyNs) / 1e9)
	if hit {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
}

func (c *vmCollector) RecordSet(latencyNs int64) {
	c.insertLatency.Update(float64(latencyNs) / 1e9)
}

func (c *vmCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Update(float64(latencyNs) / 1e9)
}

func (c *vmCollector) RecordEviction() {
	c.evictions.Inc()
}

// writeFile writes the Prometheus text exposition of the set to path,
// replacing any previous file atomically.
func (c *vmCollector) writeFile(path string) error {
	var buf bytes.Buffer
	c.set.WritePrometheus(&buf)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

var _ hood.MetricsCollector = (*vmCollector)(nil)
