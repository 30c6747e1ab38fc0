// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

import "errors"

// ExitInfraError is the exit code for configuration or backend wiring
// failures. A completed command exits 0 whatever the flush outcome.
const ExitInfraError = 1

// Errors
var (
	ErrNotInitialized  = errors.New("runner not initialized")
	ErrShutdownTimeout = errors.New("graceful shutdown timed out")
)
