// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/observability"
)

// Scheduler errors.
var (
	ErrNoJobs         = errors.New("scheduler has no jobs")
	ErrAlreadyStarted = errors.New("scheduler already started")
)

// Job is a unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func()
}

// Scheduler runs each job on its own fixed interval until its context is
// cancelled. Runs of the same job never overlap: ticks that fire while the
// job is still running are dropped.
type Scheduler struct {
	mu         sync.Mutex
	logger     observability.Logger
	jobs       []Job
	runOnStart bool
	started    bool
}

// NewScheduler creates a scheduler that logs through logger.
func NewScheduler(logger observability.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// WithRunOnStart fires every job once as soon as Start is called.
func (s *Scheduler) WithRunOnStart(v bool) *Scheduler {
	s.runOnStart = v
	return s
}

// Add registers a job. It must be called before Start.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" {
		return fmt.Errorf("job name is empty")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive, got %s", job.Name, job.Interval)
	}
	if job.Run == nil {
		return fmt.Errorf("job %s: run func is nil", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start runs the jobs and blocks until ctx is cancelled and every
// in-flight run has returned.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if len(s.jobs) == 0 {
		s.mu.Unlock()
		return ErrNoJobs
	}
	s.started = true
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.loop(ctx, job)
		}(job)
	}

	s.logger.Info("Scheduler started", observability.Int("jobs", len(jobs)))
	wg.Wait()
	s.logger.Info("Scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.runJob(job)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(job)
			// Drop a tick that queued up while the job was running.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (s *Scheduler) runJob(job Job) {
	log := s.logger.With(
		observability.String("job", job.Name),
		observability.String("run_id", uuid.NewString()),
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", observability.String("panic", fmt.Sprint(r)))
		}
	}()

	log.Debug("Job started")
	job.Run()
	log.Debug("Job finished", observability.Duration("duration", time.Since(start)))
}
