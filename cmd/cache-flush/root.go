// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/config"
	tkerrors "github.com/cicd-ai-toolkit/cache-flush/pkg/errors"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/observability"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/runner"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cache-flush",
	Short: "Scheduled application cache flusher",
	Long: `cache-flush clears every registered application cache type, either
once or on a fixed schedule.

Cache types live in memory, on disk or in Redis and are declared in
$HOME/.cache-flush/config.yaml or ./.cache-flush.yaml.`,
	Version:      version.FullString(),
	SilenceUsage: true,
}

// rootFlags holds the persistent flags shared by all commands
type rootFlags struct {
	config     string
	skipGlobal bool
	logLevel   string
	logFormat  string
}

var rootOpts rootFlags

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.config, "config", "c", "", "Path to configuration file (skips global and project config)")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.skipGlobal, "skip-global", false, "Ignore $HOME/.cache-flush/config.yaml")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logFormat, "log-format", "", "Log format: logfmt, json")
}

// loadConfig resolves the effective configuration. Flags win over every
// config layer.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if rootOpts.skipGlobal {
		loader = loader.SkipGlobal()
	}

	var (
		cfg *config.Config
		err error
	)
	if rootOpts.config != "" {
		cfg, err = loader.LoadFile(rootOpts.config)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	if rootOpts.logLevel != "" {
		cfg.Global.LogLevel = rootOpts.logLevel
	}
	if rootOpts.logFormat != "" {
		cfg.Global.LogFormat = rootOpts.logFormat
	}
	if err := config.NewValidator().ValidateGlobal(&cfg.Global); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner loads configuration and bootstraps a runner whose logs go to
// the command's stderr.
func newRunner(cmd *cobra.Command) (*runner.Runner, observability.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := observability.NewLoggerWithOptions(cmd.ErrOrStderr(), cfg.Global.LogLevel, cfg.Global.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	r := runner.New(cfg, logger)
	if err := r.Bootstrap(cmd.Context()); err != nil {
		logger.Error("Bootstrap failed",
			observability.Err(err),
			observability.Bool("retryable", tkerrors.IsRetryable(err)),
		)
		return nil, nil, err
	}
	return r, logger, nil
}
