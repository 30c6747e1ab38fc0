// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/cache"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered cache types",
	Long: `List every configured cache type with its backend, status and current entry count.

LOCATION is the directory of a disk backend or the key namespace of a Redis
backend.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newRunner(cmd)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = r.Shutdown(ctx)
		}()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		m := r.Manager()
		fmt.Fprintln(w, "ID\tLABEL\tBACKEND\tLOCATION\tSTATUS\tENTRIES")
		for _, t := range m.Types(cmd.Context()) {
			status := "enabled"
			if !t.Enabled {
				status = "disabled"
			}
			entries := strconv.Itoa(t.Entries)
			if t.Err != nil {
				entries = "?"
			}
			backend, _ := m.Backend(t.ID)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Label, t.Kind, location(backend), status, entries)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

// location describes where a backend keeps its entries.
func location(c cache.Cache) string {
	switch b := c.(type) {
	case *cache.DiskCache:
		return b.Path()
	case *cache.RedisCache:
		return b.Namespace() + "*"
	default:
		return "-"
	}
}
