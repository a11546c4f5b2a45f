// run_test.go: tests for the hoodbench workload and command wiring
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agilira/hood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallWorkload() workload {
	return workload{
		Capacity:    64,
		Shards:      3,
		Ops:         5000,
		Keys:        500,
		ReadRatio:   0.7,
		DeleteRatio: 0.05,
		Skew:        1.2,
		Seed:        7,
	}
}

func TestWorkloadValidate(t *testing.T) {
	require.NoError(t, smallWorkload().validate())

	bad := []func(*workload){
		func(w *workload) { w.Shards = 0 },
		func(w *workload) { w.Ops = -1 },
		func(w *workload) { w.Keys = 0 },
		func(w *workload) { w.ReadRatio = 0.9; w.DeleteRatio = 0.2 },
		func(w *workload) { w.DeleteRatio = -0.1 },
	}
	for i, mutate := range bad {
		w := smallWorkload()
		mutate(&w)
		assert.Error(t, w.validate(), "case %d", i)
	}
}

func TestRunWorkload(t *testing.T) {
	w := smallWorkload()
	collector := newVMCollector()

	results, err := runWorkload(context.Background(), w, collector, hood.NoOpLogger{})
	require.NoError(t, err)
	require.Equal(t, w.Shards, results.Size())

	var evictions uint64
	results.Range(func(shard int, res shardResult) bool {
		assert.LessOrEqual(t, res.Cache.Size, w.Capacity, "shard %d", shard)
		assert.NotZero(t, res.Cache.Hits+res.Cache.Misses, "shard %d ran no finds", shard)
		evictions += res.Cache.Evictions
		return true
	})
	assert.NotZero(t, evictions, "key space is larger than the cache")
	assert.Equal(t, evictions, collector.evictions.Get())
}

func TestRunWorkload_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runWorkload(ctx, smallWorkload(), newVMCollector(), hood.NoOpLogger{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWorkload_InvalidCapacity(t *testing.T) {
	w := smallWorkload()
	w.Capacity = -1
	_, err := runWorkload(context.Background(), w, newVMCollector(), hood.NoOpLogger{})
	require.Error(t, err)
	assert.True(t, hood.IsConfigError(err))
}

func TestKeyStream(t *testing.T) {
	for _, skew := range []float64{0, 1.5} {
		next := keyStream(newTestRand(), 10, skew)
		for i := 0; i < 1000; i++ {
			k := next()
			require.GreaterOrEqual(t, k, 0)
			require.Less(t, k, 10)
		}
	}
}

func TestVMCollector_WriteFile(t *testing.T) {
	c := newVMCollector()
	c.RecordGet(1500, true)
	c.RecordGet(900, false)
	c.RecordSet(2000)
	c.RecordDelete(100)
	c.RecordEviction()

	path := filepath.Join(t.TempDir(), "hood.prom")
	require.NoError(t, c.writeFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `hood_find_total{result="hit"} 1`)
	assert.Contains(t, text, `hood_find_total{result="miss"} 1`)
	assert.Contains(t, text, "hood_evictions_total 1")
	assert.Contains(t, text, `hood_op_duration_seconds_count{op="insert"} 1`)
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newStdLogger(&buf, false)

	l.Debug("hidden")
	l.Info("evicted", "index", 3, "dangling")
	out := buf.String()

	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO evicted index=3 dangling=MISSING")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	promPath := filepath.Join(dir, "out.prom")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"run",
		"--capacity", "32", "--shards", "2", "--ops", "2000", "--keys", "200",
		"--prom-out", promPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "hit ratio")
	assert.Contains(t, out.String(), "metrics written to")
	_, err := os.Stat(promPath)
	assert.NoError(t, err)
}

func TestRunCommand_EnvOverride(t *testing.T) {
	t.Setenv("HOOD_SHARDS", "0")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--ops", "10"})
	err := root.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "shards"), err.Error())
}

func TestRunCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("read-ratio: 2\n"), 0600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--config", path, "--ops", "10"})
	assert.Error(t, root.Execute(), "ratio from the config file must be validated")
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(3))
}
