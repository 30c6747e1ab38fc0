// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults, config files, environment
variables and flags have been applied, followed by the files and
CACHE_FLUSH_* variables that contributed to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprint(w, string(out))

		sources := config.FindConfigPaths()
		switch {
		case rootOpts.config != "":
			sources = []string{rootOpts.config}
		case rootOpts.skipGlobal:
			sources = withoutGlobal(sources)
		}
		fmt.Fprintln(w, "\n# files:")
		for _, p := range sources {
			fmt.Fprintf(w, "#   %s\n", p)
		}

		env := config.GetEnvConfig()
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "# environment:")
		for _, k := range keys {
			fmt.Fprintf(w, "#   %s=%s\n", k, env[k])
		}
		return nil
	},
}

// withoutGlobal drops the $HOME config file from paths.
func withoutGlobal(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if filepath.Base(filepath.Dir(p)) == config.GlobalConfigDir && filepath.Base(p) == config.GlobalConfigFile {
			continue
		}
		out = append(out, p)
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
}
