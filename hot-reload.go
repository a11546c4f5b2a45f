// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file with Argus and applies the
// settings that can change at runtime to a LoadFactorTuner (a growable
// *Table).
//
// Capacity changes are recorded but not applied: a Cache's capacity is
// fixed for its lifetime, and a Table resizes on its own.
//
// The tuner is called from the watcher goroutine. Table is not safe for
// concurrent use, so the caller must serialize table access with the
// reload, for example by doing both under one lock inside the tuner.
type HotConfig struct {
	target  LoadFactorTuner
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations. Default: NoOpLogger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for target.
//
// Example configuration file (YAML):
//
//	table:
//	  capacity: 4096
//	  max_load_factor: 0.85
//
// Supported configuration keys:
//   - table.capacity (int): informational, applied on reconstruction only
//   - table.max_load_factor (float): resize threshold in (0, 1]
func NewHotConfig(target LoadFactorTuner, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}
	if target == nil {
		return nil, fmt.Errorf("target is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		target:   target,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		config:   DefaultConfig(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	hc.applyChanges(oldConfig, newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseLoadFactor extracts a float64 in (0, 1].
func parseLoadFactor(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	if f > 0 && f <= 1 {
		return f, true
	}
	return 0, false
}

// parseConfig extracts table configuration from Argus config data.
func parseConfig(data map[string]interface{}) Config {
	config := DefaultConfig()

	section, ok := data["table"].(map[string]interface{})
	if !ok {
		// the whole document may be the table section
		section = data
	}

	if capacity, ok := parsePositiveInt(section["capacity"]); ok {
		config.Capacity = capacity
	}

	if factor, ok := parseLoadFactor(section["max_load_factor"]); ok {
		config.MaxLoadFactor = factor
	}

	return config
}

// applyChanges pushes runtime-tunable settings to the target.
func (hc *HotConfig) applyChanges(old, new Config) {
	if old.MaxLoadFactor != new.MaxLoadFactor {
		if err := hc.target.SetMaxLoadFactor(new.MaxLoadFactor); err != nil {
			hc.logger.Warn("hood: rejected max load factor", "value", new.MaxLoadFactor, "error", err)
		} else {
			hc.logger.Info("hood: max load factor reloaded", "from", old.MaxLoadFactor, "to", new.MaxLoadFactor)
		}
	}

	if old.Capacity != new.Capacity {
		hc.logger.Info("hood: capacity change requires reconstruction", "from", old.Capacity, "to", new.Capacity)
	}
}
