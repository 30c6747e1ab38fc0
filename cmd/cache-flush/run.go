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

const shutdownTimeout = 10 * time.Second

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Flush all cache types once",
	Long: `Flush every enabled cache type once and exit.

The outcome is reported in the log only. The command exits 0 whether the
flush succeeded, found nothing to flush or failed; a non-zero exit means
configuration or backend wiring went wrong before the flush could start.
SIGINT or SIGTERM interrupts a flush in progress.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, logger, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = r.Shutdown(ctx)
		}()

		ctx, cancel := sigctx.WithSignal(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		err = r.FlushOnce(ctx)
		if sig := sigctx.Signal(ctx); sig != nil {
			logger.Info("Received signal, flush interrupted", observability.String("signal", sig.String()))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
