// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for cache-flush.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.cache-flush/config.yaml
// 3. Project Config: ./.cache-flush.yaml
// 4. Environment Variables: CACHE_FLUSH_*
package config

import (
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Cron   CronConfig        `yaml:"cron"`
	Caches []CacheTypeConfig `yaml:"caches"`
	Redis  RedisConfig       `yaml:"redis"`
	Global GlobalConfig      `yaml:"global"`
}

// CronConfig controls when and how long the flush job runs.
type CronConfig struct {
	Interval   time.Duration `yaml:"interval"`     // time between flushes
	Timeout    time.Duration `yaml:"timeout"`      // bound on one flush, 0 = none
	RunOnStart bool          `yaml:"run_on_start"` // flush once when the daemon starts
}

// CacheTypeConfig declares one cache type and its backend.
type CacheTypeConfig struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label,omitempty"`
	Description string `yaml:"description,omitempty"`
	Backend     string `yaml:"backend"`           // memory, disk, redis
	Enabled     *bool  `yaml:"enabled,omitempty"` // default true
	Path        string `yaml:"path,omitempty"`    // disk backend directory
}

// IsEnabled reports whether the type takes part in flushes.
func (c CacheTypeConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// RedisConfig contains the shared Redis connection used by redis backends.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	PasswordEnv string `yaml:"password_env"` // e.g., "REDIS_PASSWORD"
	DB          int    `yaml:"db"`
	KeyPrefix   string `yaml:"key_prefix"`
	// password field is NOT allowed - must use password_env
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string `yaml:"log_format"`   // logfmt, json
	MetricsAddr string `yaml:"metrics_addr"` // e.g., ":9102"; empty disables /metrics
	CacheRoot   string `yaml:"cache_root"`   // base dir for disk backends without a path
}
