// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/config"
)

// isolate points HOME at an empty directory and clears CACHE_FLUSH_CONFIG so
// the developer's own config files never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

// TestDefaultConfig tests the default configuration.
func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Cron.Interval != time.Hour {
		t.Errorf("Expected default interval 1h, got %v", cfg.Cron.Interval)
	}

	if cfg.Cron.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Cron.Timeout)
	}

	if len(cfg.Caches) != 4 {
		t.Fatalf("Expected 4 default cache types, got %d", len(cfg.Caches))
	}

	for _, c := range cfg.Caches {
		if c.Backend != "disk" {
			t.Errorf("Expected default backend 'disk' for %s, got '%s'", c.ID, c.Backend)
		}
		if !c.IsEnabled() {
			t.Errorf("Expected %s to be enabled by default", c.ID)
		}
	}

	if cfg.Redis.KeyPrefix != "cache:" {
		t.Errorf("Expected default key prefix 'cache:', got '%s'", cfg.Redis.KeyPrefix)
	}

	if cfg.Global.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.Global.LogLevel)
	}

	if cfg.Global.CacheRoot == "" {
		t.Error("Expected a default cache root")
	}
}

// TestLoadFromPath tests loading config from a file.
func TestLoadFromPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, `
cron:
  interval: 15m
  timeout: 5s
  run_on_start: true

caches:
  - id: config
    backend: memory
  - id: full_page
    backend: redis
    enabled: false

redis:
  addr: localhost:6379
  password_env: REDIS_PASSWORD
  db: 2

global:
  log_level: debug
  log_format: json
`)

	loader := config.NewLoader()
	cfg, err := loader.LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Cron.Interval != 15*time.Minute {
		t.Errorf("Expected interval 15m, got %v", cfg.Cron.Interval)
	}

	if cfg.Cron.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Cron.Timeout)
	}

	if !cfg.Cron.RunOnStart {
		t.Error("Expected run_on_start to be true")
	}

	if len(cfg.Caches) != 2 {
		t.Fatalf("Expected 2 cache types, got %d", len(cfg.Caches))
	}

	if cfg.Caches[1].IsEnabled() {
		t.Error("Expected full_page to be disabled")
	}

	if cfg.Redis.DB != 2 || cfg.Redis.PasswordEnv != "REDIS_PASSWORD" {
		t.Errorf("Unexpected redis config: %+v", cfg.Redis)
	}

	if cfg.Redis.KeyPrefix != "cache:" {
		t.Errorf("Default key prefix should be preserved, got '%s'", cfg.Redis.KeyPrefix)
	}

	if cfg.Global.LogFormat != "json" {
		t.Errorf("Expected log format 'json', got '%s'", cfg.Global.LogFormat)
	}
}

// TestLoadFromPathInvalid tests loading an invalid config file.
func TestLoadFromPathInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, `
cron:
  interval: not_a_duration
`)

	loader := config.NewLoader()
	_, err := loader.LoadFromPath(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid config, got nil")
	}

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError, got %T", err)
	}
	if cfgErr.Path != configPath {
		t.Errorf("Expected error path %s, got %s", configPath, cfgErr.Path)
	}
}

// TestLoadFromPathMissing tests loading a file that does not exist.
func TestLoadFromPathMissing(t *testing.T) {
	_, err := config.NewLoader().LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

// TestLoadWithEnvOverrides tests environment variable overrides.
func TestLoadWithEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CACHE_FLUSH_CRON__INTERVAL", "10m")
	t.Setenv("CACHE_FLUSH_CRON__RUN_ON_START", "true")
	t.Setenv("CACHE_FLUSH_GLOBAL__LOG_LEVEL", "warn")
	t.Setenv("CACHE_FLUSH_GLOBAL__CACHE_ROOT", "/var/cache/shop")

	cfg, err := config.NewLoader().WithProjectRoot(t.TempDir()).Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Cron.Interval != 10*time.Minute {
		t.Errorf("Expected interval 10m from env, got %v", cfg.Cron.Interval)
	}

	if !cfg.Cron.RunOnStart {
		t.Error("Expected run_on_start from env")
	}

	if cfg.Global.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn' from env, got '%s'", cfg.Global.LogLevel)
	}

	if cfg.Global.CacheRoot != "/var/cache/shop" {
		t.Errorf("Expected cache root from env, got '%s'", cfg.Global.CacheRoot)
	}
}

// TestLoadWithEnvInvalidValues tests invalid values from env.
func TestLoadWithEnvInvalidValues(t *testing.T) {
	tests := map[string]string{
		"CACHE_FLUSH_CRON__TIMEOUT":      "invalid",
		"CACHE_FLUSH_CRON__RUN_ON_START": "maybe",
		"CACHE_FLUSH_REDIS__DB":          "zero",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)

			_, err := config.NewLoader().WithProjectRoot(t.TempDir()).Load()
			if err == nil {
				t.Errorf("Expected error for %s=%s, got nil", key, value)
			}
		})
	}
}

// TestLoadLayers tests layering of global and project config.
func TestLoadLayers(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), `
cron:
  interval: 2h
global:
  log_level: debug
`)

	projectRoot := t.TempDir()
	writeFile(t, filepath.Join(projectRoot, config.ProjectConfigFile), `
caches:
  - id: block_html
    backend: memory
global:
  log_format: json
`)

	cfg, err := config.NewLoader().WithProjectRoot(projectRoot).Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Global layer survives where the project file is silent
	if cfg.Cron.Interval != 2*time.Hour {
		t.Errorf("Expected interval 2h from global config, got %v", cfg.Cron.Interval)
	}

	if cfg.Global.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug' from global config, got '%s'", cfg.Global.LogLevel)
	}

	// Defaults are preserved where nothing overrides them
	if cfg.Cron.Timeout != 30*time.Second {
		t.Errorf("Default timeout should be preserved, got %v", cfg.Cron.Timeout)
	}

	if cfg.Global.LogFormat != "json" {
		t.Errorf("Expected log format 'json' from project config, got '%s'", cfg.Global.LogFormat)
	}

	if len(cfg.Caches) != 1 || cfg.Caches[0].ID != "block_html" {
		t.Errorf("Expected project cache list to replace defaults, got %+v", cfg.Caches)
	}
}

// TestLoadLayersExplicitZero tests that a project file can reset a value the
// global file set.
func TestLoadLayersExplicitZero(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), `
cron:
  timeout: 10s
  run_on_start: true
redis:
  addr: redis.internal:6379
  db: 3
global:
  metrics_addr: ":9102"
`)

	projectRoot := t.TempDir()
	writeFile(t, filepath.Join(projectRoot, config.ProjectConfigFile), `
cron:
  timeout: 0s
  run_on_start: false
redis:
  db: 0
global:
  metrics_addr: ""
`)

	cfg, err := config.NewLoader().WithProjectRoot(projectRoot).Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Cron.Timeout != 0 {
		t.Errorf("Expected project timeout 0 to override global 10s, got %v", cfg.Cron.Timeout)
	}

	if cfg.Cron.RunOnStart {
		t.Error("Expected project run_on_start false to override global true")
	}

	if cfg.Redis.DB != 0 {
		t.Errorf("Expected project db 0 to override global 3, got %d", cfg.Redis.DB)
	}

	if cfg.Global.MetricsAddr != "" {
		t.Errorf("Expected project to disable metrics, got '%s'", cfg.Global.MetricsAddr)
	}

	// Keys absent from the project file keep the global value
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Expected redis addr from global config, got '%s'", cfg.Redis.Addr)
	}
}

// TestLoadSkipGlobal tests that SkipGlobal ignores the home config.
func TestLoadSkipGlobal(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), `
global:
  log_level: error
`)

	cfg, err := config.NewLoader().WithProjectRoot(t.TempDir()).SkipGlobal().Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Global.LogLevel != "info" {
		t.Errorf("Expected global config to be skipped, got log level '%s'", cfg.Global.LogLevel)
	}
}

// TestLoadConfigPathEnv tests that CACHE_FLUSH_CONFIG replaces file discovery.
func TestLoadConfigPathEnv(t *testing.T) {
	isolate(t)

	projectRoot := t.TempDir()
	writeFile(t, filepath.Join(projectRoot, config.ProjectConfigFile), `
global:
  log_level: error
`)

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, `
global:
  log_level: warn
`)
	t.Setenv(config.EnvConfigPath, explicit)

	cfg, err := config.NewLoader().WithProjectRoot(projectRoot).Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Global.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn' from %s, got '%s'", config.EnvConfigPath, cfg.Global.LogLevel)
	}
}

// TestLoadFileValidates tests that LoadFile rejects invalid files.
func TestLoadFileValidates(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, `
caches:
  - id: full_page
    backend: redis
`)

	_, err := config.NewLoader().LoadFile(configPath)
	var vErr *config.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if vErr.Field != "redis.addr" {
		t.Errorf("Expected error for redis.addr, got %s", vErr.Field)
	}
}

// TestValidator tests the configuration validator.
func TestValidator(t *testing.T) {
	v := config.NewValidator()

	if err := v.Validate(config.DefaultConfig()); err != nil {
		t.Errorf("Valid config should pass validation, got error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"zero interval", func(c *config.Config) { c.Cron.Interval = 0 }, "cron.interval"},
		{"negative timeout", func(c *config.Config) { c.Cron.Timeout = -1 }, "cron.timeout"},
		{"bad id", func(c *config.Config) { c.Caches[0].ID = "Full Page" }, "caches[0].id"},
		{"empty id", func(c *config.Config) { c.Caches[1].ID = "" }, "caches[1].id"},
		{"duplicate id", func(c *config.Config) { c.Caches[1].ID = c.Caches[0].ID }, "caches[1].id"},
		{"unknown backend", func(c *config.Config) { c.Caches[2].Backend = "memcached" }, "caches[2].backend"},
		{"redis without addr", func(c *config.Config) { c.Caches[0].Backend = "redis" }, "redis.addr"},
		{"negative db", func(c *config.Config) { c.Redis.DB = -1 }, "redis.db"},
		{"invalid log level", func(c *config.Config) { c.Global.LogLevel = "trace" }, "global.log_level"},
		{"invalid log format", func(c *config.Config) { c.Global.LogFormat = "xml" }, "global.log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			err := v.Validate(cfg)
			var vErr *config.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Expected error for %s, got %s", tt.field, vErr.Field)
			}
		})
	}
}

// TestValidatorRedisBackend tests that a configured redis backend passes.
func TestValidatorRedisBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Caches[0].Backend = "Redis"
	cfg.Redis.Addr = "localhost:6379"

	if err := config.NewValidator().Validate(cfg); err != nil {
		t.Errorf("Config with redis.addr should be valid, got error: %v", err)
	}
}

// TestValidationErrorMessage tests the error format.
func TestValidationErrorMessage(t *testing.T) {
	err := &config.ValidationError{Field: "cron.interval", Value: 0, Message: "must be positive"}
	want := "validation error for cron.interval: must be positive (got: 0)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

// TestFindConfigPaths tests finding config files.
func TestFindConfigPaths(t *testing.T) {
	home := isolate(t)

	paths := config.FindConfigPaths()
	if paths == nil {
		t.Error("Expected non-nil paths array")
	}

	globalPath := filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile)
	writeFile(t, globalPath, "global:\n  log_level: debug\n")

	paths = config.FindConfigPaths()
	if len(paths) != 1 || paths[0] != globalPath {
		t.Errorf("Expected [%s], got %v", globalPath, paths)
	}
}

// TestGetEnvConfig tests getting environment config.
func TestGetEnvConfig(t *testing.T) {
	t.Setenv("CACHE_FLUSH_CRON__INTERVAL", "5m")

	envCfg := config.GetEnvConfig()
	if envCfg["CACHE_FLUSH_CRON__INTERVAL"] != "5m" {
		t.Errorf("Expected CACHE_FLUSH_CRON__INTERVAL=5m, got %q", envCfg["CACHE_FLUSH_CRON__INTERVAL"])
	}
}
