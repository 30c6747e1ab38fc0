// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "CACHE_FLUSH"
	// EnvConfigPath overrides the config file path.
	EnvConfigPath = "CACHE_FLUSH_CONFIG"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".cache-flush.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".cache-flush"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	skipGlobal  bool
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.cache-flush/config.yaml)
// 3. Project Config (./.cache-flush.yaml)
// 4. Environment Variables (CACHE_FLUSH_*)
//
// Each file is decoded onto the result of the layers before it, so a key
// overrides the lower layers whenever it is present, zero values included.
// A list such as caches replaces the lower layer's list as a whole.
//
// If CACHE_FLUSH_CONFIG is set, that file replaces steps 2 and 3.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return l.LoadFile(path)
	}

	cfg := DefaultConfig()

	if !l.skipGlobal {
		if err := l.loadGlobalConfig(cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := l.loadProjectConfig(cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults, then path, then environment overrides, and
// validates the result.
func (l *Loader) LoadFile(path string) (*Config, error) {
	cfg, err := l.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of the
// defaults. It neither applies environment overrides nor validates.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := readFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

// loadGlobalConfig decodes $HOME/.cache-flush/config.yaml onto cfg.
func (l *Loader) loadGlobalConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// No home directory means no global config.
		return os.ErrNotExist
	}

	globalPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
	return readFile(globalPath, cfg)
}

// loadProjectConfig decodes ./.cache-flush.yaml onto cfg.
func (l *Loader) loadProjectConfig(cfg *Config) error {
	root := l.projectRoot
	if root == "" {
		root = "."
	}

	projectPath := filepath.Join(root, ProjectConfigFile)
	return readFile(projectPath, cfg)
}

// applyEnvOverrides applies environment variable overrides.
// Format: CACHE_FLUSH_SECTION__KEY=value
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	// Cron settings
	if v := os.Getenv("CACHE_FLUSH_CRON__INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: "cron.interval", Err: err}
		}
		cfg.Cron.Interval = d
	}
	if v := os.Getenv("CACHE_FLUSH_CRON__TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: "cron.timeout", Err: err}
		}
		cfg.Cron.Timeout = d
	}
	if v := os.Getenv("CACHE_FLUSH_CRON__RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "cron.run_on_start", Err: err}
		}
		cfg.Cron.RunOnStart = b
	}

	// Redis settings
	if v := os.Getenv("CACHE_FLUSH_REDIS__ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CACHE_FLUSH_REDIS__DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "redis.db", Err: err}
		}
		cfg.Redis.DB = db
	}

	// Global settings
	if v := os.Getenv("CACHE_FLUSH_GLOBAL__LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := os.Getenv("CACHE_FLUSH_GLOBAL__LOG_FORMAT"); v != "" {
		cfg.Global.LogFormat = v
	}
	if v := os.Getenv("CACHE_FLUSH_GLOBAL__METRICS_ADDR"); v != "" {
		cfg.Global.MetricsAddr = v
	}
	if v := os.Getenv("CACHE_FLUSH_GLOBAL__CACHE_ROOT"); v != "" {
		cfg.Global.CacheRoot = v
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "config error in " + e.Path + ": " + e.Err.Error()
	}
	if e.Field != "" {
		return "config error for " + e.Field + ": " + e.Err.Error()
	}
	return "config error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FindConfigPaths returns the config files Load would read, in precedence
// order. Missing files are left out.
func FindConfigPaths() []string {
	paths := []string{}

	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
		return paths
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalPath); err == nil {
			paths = append(paths, globalPath)
		}
	}

	if _, err := os.Stat(ProjectConfigFile); err == nil {
		paths = append(paths, ProjectConfigFile)
	}

	return paths
}

// GetEnvConfig returns all environment variables that start with CACHE_FLUSH_.
func GetEnvConfig() map[string]string {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			kv := strings.SplitN(env, "=", 2)
			if len(kv) == 2 {
				result[kv[0]] = kv[1]
			}
		}
	}

	return result
}
