// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package cron holds the periodic jobs and the scheduler that drives them.
package cron

import (
	"github.com/cicd-ai-toolkit/cache-flush/pkg/observability"
)

// Log messages written by FlushCache, one per run.
const (
	MsgFlushed     = "Cache flushed successfully via cron."
	MsgNothing     = "Cache flush attempt returned false, or nothing to flush."
	MsgErrorPrefix = "Error flushing cache via cron: "
)

// CacheManager flushes cache types. An empty selector flushes every type.
type CacheManager interface {
	Flush(types []string) (bool, error)
}

// Logger receives the outcome of each run.
type Logger interface {
	Info(msg string, fields ...observability.Field)
	Warn(msg string, fields ...observability.Field)
	Error(msg string, fields ...observability.Field)
}

// Outcome is the categorized result of one flush attempt.
type Outcome int

const (
	// Success means the manager reported a flush.
	Success Outcome = iota
	// SoftFailure means the manager returned false without an error.
	SoftFailure
	// Failed means the manager returned an error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SoftFailure:
		return "soft_failure"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Classify maps a flush result onto an Outcome. An error always wins.
func Classify(ok bool, err error) Outcome {
	switch {
	case err != nil:
		return Failed
	case ok:
		return Success
	default:
		return SoftFailure
	}
}

// FlushCache flushes every cache type and logs what happened. It never
// fails towards its caller; the next scheduled run is the retry.
type FlushCache struct {
	manager CacheManager
	logger  Logger
}

// NewFlushCache creates the flush job.
func NewFlushCache(manager CacheManager, logger Logger) *FlushCache {
	return &FlushCache{
		manager: manager,
		logger:  logger,
	}
}

// Name identifies the job to the scheduler.
func (f *FlushCache) Name() string {
	return "flush_cache"
}

// Run flushes all cache types and writes exactly one log line.
func (f *FlushCache) Run() {
	ok, err := f.manager.Flush(nil)

	switch Classify(ok, err) {
	case Failed:
		f.logger.Error(MsgErrorPrefix + err.Error())
	case Success:
		f.logger.Info(MsgFlushed)
	case SoftFailure:
		f.logger.Warn(MsgNothing)
	}
}
