// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	validBackends   = []string{"memory", "disk", "redis"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"logfmt", "json"}

	cacheIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a configuration.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateCron(&cfg.Cron); err != nil {
		return err
	}
	if err := v.ValidateCaches(cfg.Caches, &cfg.Redis); err != nil {
		return err
	}
	if err := v.ValidateGlobal(&cfg.Global); err != nil {
		return err
	}
	return nil
}

// ValidateCron validates the schedule.
func (v *Validator) ValidateCron(cfg *CronConfig) error {
	if cfg.Interval <= 0 {
		return &ValidationError{
			Field:   "cron.interval",
			Value:   cfg.Interval,
			Message: "must be positive",
		}
	}
	if cfg.Timeout < 0 {
		return &ValidationError{
			Field:   "cron.timeout",
			Value:   cfg.Timeout,
			Message: "must be non-negative",
		}
	}
	return nil
}

// ValidateCaches validates the cache type declarations.
func (v *Validator) ValidateCaches(caches []CacheTypeConfig, redis *RedisConfig) error {
	seen := make(map[string]bool, len(caches))
	for i, c := range caches {
		field := fmt.Sprintf("caches[%d]", i)

		if !cacheIDPattern.MatchString(c.ID) {
			return &ValidationError{
				Field:   field + ".id",
				Value:   c.ID,
				Message: "must be lowercase letters, digits or underscores",
			}
		}
		if seen[c.ID] {
			return &ValidationError{
				Field:   field + ".id",
				Value:   c.ID,
				Message: "is declared more than once",
			}
		}
		seen[c.ID] = true

		if !oneOf(c.Backend, validBackends) {
			return &ValidationError{
				Field:   field + ".backend",
				Value:   c.Backend,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(validBackends, ", ")),
			}
		}
		if strings.EqualFold(c.Backend, "redis") && redis.Addr == "" {
			return &ValidationError{
				Field:   "redis.addr",
				Message: fmt.Sprintf("must be set when cache type %s uses the redis backend", c.ID),
			}
		}
	}

	if redis.DB < 0 {
		return &ValidationError{
			Field:   "redis.db",
			Value:   redis.DB,
			Message: "must be non-negative",
		}
	}
	return nil
}

// ValidateGlobal validates global configuration.
func (v *Validator) ValidateGlobal(cfg *GlobalConfig) error {
	if cfg.LogLevel != "" && !oneOf(cfg.LogLevel, validLogLevels) {
		return &ValidationError{
			Field:   "global.log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
		}
	}
	if cfg.LogFormat != "" && !oneOf(cfg.LogFormat, validLogFormats) {
		return &ValidationError{
			Field:   "global.log_format",
			Value:   cfg.LogFormat,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogFormats, ", ")),
		}
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
