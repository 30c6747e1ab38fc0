// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	cacheRoot := filepath.Join(homeDir, GlobalConfigDir, "cache")

	return &Config{
		Cron:   DefaultCronConfig(),
		Caches: DefaultCacheTypes(),
		Redis:  DefaultRedisConfig(),
		Global: DefaultGlobalConfig(cacheRoot),
	}
}

// DefaultCronConfig returns the default schedule.
func DefaultCronConfig() CronConfig {
	return CronConfig{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
	}
}

// DefaultCacheTypes returns the cache types flushed when none are configured.
func DefaultCacheTypes() []CacheTypeConfig {
	return []CacheTypeConfig{
		{ID: "config", Label: "Configuration", Description: "Merged configuration files", Backend: "disk"},
		{ID: "layout", Label: "Layouts", Description: "Layout building instructions", Backend: "disk"},
		{ID: "block_html", Label: "Blocks HTML output", Description: "Rendered page fragments", Backend: "disk"},
		{ID: "full_page", Label: "Page Cache", Description: "Full page responses", Backend: "disk"},
	}
}

// DefaultRedisConfig returns default Redis settings.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		KeyPrefix: "cache:",
	}
}

// DefaultGlobalConfig returns default global configuration.
func DefaultGlobalConfig(cacheRoot string) GlobalConfig {
	return GlobalConfig{
		LogLevel:  "info",
		LogFormat: "logfmt",
		CacheRoot: cacheRoot,
	}
}
