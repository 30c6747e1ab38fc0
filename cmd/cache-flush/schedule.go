// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sigctx "github.com/cicd-ai-toolkit/cache-flush/pkg/context"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/observability"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Flush all cache types on a fixed interval",
	Long: `Run as a daemon that flushes every enabled cache type each
cron.interval until SIGINT or SIGTERM is received.

With --metrics-addr (or global.metrics_addr) Prometheus metrics are served
at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, logger, err := newRunner(cmd)
		if err != nil {
			return err
		}

		cfg := r.Config()
		if scheduleOpts.metricsAddr != "" {
			cfg.Global.MetricsAddr = scheduleOpts.metricsAddr
		}
		if scheduleOpts.interval > 0 {
			cfg.Cron.Interval = scheduleOpts.interval
		}
		if cmd.Flags().Changed("run-on-start") {
			cfg.Cron.RunOnStart = scheduleOpts.runOnStart
		}

		ctx, cancel := sigctx.WithSignal(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		serveErr := r.Serve(ctx)
		if sig := sigctx.Signal(ctx); sig != nil {
			logger.Info("Received signal, shutting down", observability.String("signal", sig.String()))
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := r.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Shutdown incomplete", observability.Err(err))
		}
		return serveErr
	},
}

// scheduleFlags holds the flags for the schedule command
type scheduleFlags struct {
	metricsAddr string
	interval    time.Duration
	runOnStart  bool
}

var scheduleOpts scheduleFlags

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleOpts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
	scheduleCmd.Flags().DurationVar(&scheduleOpts.interval, "interval", 0, "Override cron.interval")
	scheduleCmd.Flags().BoolVar(&scheduleOpts.runOnStart, "run-on-start", false, "Flush once immediately on start")
}
