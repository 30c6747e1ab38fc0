// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package main is the entry point for the cache-flush CLI.
package main

import (
	"os"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/runner"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(runner.ExitInfraError)
	}
}
