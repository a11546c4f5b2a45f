// config_test.go: tests for configuration defaults and validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultCapacity, cfg.Capacity)
	assert.Equal(t, DefaultMaxLoadFactor, cfg.MaxLoadFactor)
	assert.NotZero(t, cfg.Seed)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.TimeProvider)
	assert.NotNil(t, cfg.MetricsCollector)
	assert.NotNil(t, cfg.Abort)
}

func TestConfig_ValidateKeepsExplicitValues(t *testing.T) {
	cfg := Config{Capacity: 7, MaxLoadFactor: 0.5, Seed: 99}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 7, cfg.Capacity)
	assert.Equal(t, 0.5, cfg.MaxLoadFactor)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code string
	}{
		{"negative capacity", Config{Capacity: -1}, "HOOD_INVALID_CAPACITY"},
		{"negative load factor", Config{MaxLoadFactor: -0.1}, "HOOD_INVALID_LOAD_FACTOR"},
		{"load factor above one", Config{MaxLoadFactor: 1.1}, "HOOD_INVALID_LOAD_FACTOR"},
		{"NaN load factor", Config{MaxLoadFactor: math.NaN()}, "HOOD_INVALID_LOAD_FACTOR"},
		{"infinite load factor", Config{MaxLoadFactor: math.Inf(1)}, "HOOD_INVALID_LOAD_FACTOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, string(GetErrorCode(err)))
		})
	}
}

func TestConfig_DefaultAbortPanics(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())

	err := NewErrInvariantViolation("test", nil)
	assert.PanicsWithValue(t, err, func() { cfg.Abort(err) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultCapacity, cfg.Capacity)
	assert.Equal(t, DefaultMaxLoadFactor, cfg.MaxLoadFactor)
	require.NoError(t, cfg.Validate())
}

func TestSystemTimeProvider(t *testing.T) {
	tp := &systemTimeProvider{}
	a := tp.Now()
	b := tp.Now()
	assert.Positive(t, a)
	assert.GreaterOrEqual(t, b, a)
}
