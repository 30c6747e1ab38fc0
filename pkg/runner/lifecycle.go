// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package runner wires configuration, cache backends, the flush job and the
// scheduler into one process lifecycle.
package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/cicd-ai-toolkit/cache-flush/pkg/cache"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/config"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/cron"
	tkerrors "github.com/cicd-ai-toolkit/cache-flush/pkg/errors"
	"github.com/cicd-ai-toolkit/cache-flush/pkg/observability"
)

// State represents the runner lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Runner represents the main execution engine.
type Runner struct {
	mu sync.RWMutex

	config  *config.Config
	logger  observability.Logger
	metrics *observability.Metrics

	manager *cache.Manager
	flusher cache.Flusher
	redis   *redis.Client
	server  *http.Server

	state State
}

// New creates a runner for cfg. Nothing is connected until Bootstrap.
func New(cfg *config.Config, logger observability.Logger) *Runner {
	return &Runner{
		config:  cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
		state:   StateUninitialized,
	}
}

// Bootstrap builds the cache registry from configuration, connects the
// Redis backend when one is configured and prepares the flush job.
func (r *Runner) Bootstrap(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateUninitialized {
		return fmt.Errorf("cannot bootstrap: runner is in state %s", r.state)
	}
	r.state = StateInitializing

	if err := r.bootstrap(ctx); err != nil {
		r.closeRedis()
		r.state = StateUninitialized
		return err
	}

	r.state = StateReady
	return nil
}

func (r *Runner) bootstrap(ctx context.Context) error {
	manager := cache.NewManager(r.config.Cron.Timeout)

	for _, tc := range r.config.Caches {
		backend, err := r.buildBackend(ctx, tc)
		if err != nil {
			return err
		}
		err = manager.Register(cache.Type{
			ID:          tc.ID,
			Label:       tc.Label,
			Description: tc.Description,
			Kind:        strings.ToLower(tc.Backend),
			Enabled:     tc.IsEnabled(),
			Backend:     backend,
		})
		if err != nil {
			return err
		}
	}

	r.manager = manager
	r.flusher = cache.Instrument(manager, r.metrics.Registerer())

	r.logger.Debug("Runner bootstrapped", observability.Int("cache_types", len(r.config.Caches)))
	return nil
}

func (r *Runner) buildBackend(ctx context.Context, tc config.CacheTypeConfig) (cache.Cache, error) {
	switch strings.ToLower(tc.Backend) {
	case cache.BackendMemory:
		return cache.NewMemoryCache(), nil
	case cache.BackendDisk:
		path := tc.Path
		if path == "" {
			path = filepath.Join(r.config.Global.CacheRoot, tc.ID)
		}
		return cache.NewDiskCache(path), nil
	case cache.BackendRedis:
		client, err := r.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client, r.config.Redis.KeyPrefix, tc.ID), nil
	default:
		return nil, tkerrors.ConfigError(fmt.Sprintf("cache type %s: unknown backend %q", tc.ID, tc.Backend), nil)
	}
}

// redisClient lazily opens and pings the shared client.
func (r *Runner) redisClient(ctx context.Context) (*redis.Client, error) {
	if r.redis != nil {
		return r.redis, nil
	}

	rc := r.config.Redis
	var password string
	if rc.PasswordEnv != "" {
		password = os.Getenv(rc.PasswordEnv)
	}
	client := cache.NewRedisClient(cache.RedisConfig{
		Addr:      rc.Addr,
		Password:  password,
		DB:        rc.DB,
		KeyPrefix: rc.KeyPrefix,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, tkerrors.CacheError("redis unreachable at "+rc.Addr, err)
	}
	r.redis = client
	return client, nil
}

// FlushOnce runs the flush job a single time. The outcome is only logged.
// Cancelling ctx interrupts the flush, which is then logged as an error.
func (r *Runner) FlushOnce(ctx context.Context) error {
	task, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer r.release()

	task.Run()
	return nil
}

// Serve runs the flush job on the configured interval until ctx is
// cancelled. When global.metrics_addr is set, /metrics is served alongside.
// A flush in flight when ctx is cancelled is interrupted.
func (r *Runner) Serve(ctx context.Context) error {
	task, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer r.release()

	if addr := r.config.Global.MetricsAddr; addr != "" {
		if err := r.startMetricsServer(addr); err != nil {
			return err
		}
	}

	sched := cron.NewScheduler(r.logger).WithRunOnStart(r.config.Cron.RunOnStart)
	err = sched.Add(cron.Job{
		Name:     task.Name(),
		Interval: r.config.Cron.Interval,
		Run:      task.Run,
	})
	if err != nil {
		return err
	}

	r.logger.Info("Scheduling cache flush",
		observability.Duration("interval", r.config.Cron.Interval),
		observability.Bool("run_on_start", r.config.Cron.RunOnStart),
	)
	return sched.Start(ctx)
}

// acquire marks the runner running and returns a flush job whose backend
// calls run under ctx.
func (r *Runner) acquire(ctx context.Context) (*cron.FlushCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady {
		return nil, ErrNotInitialized
	}
	r.state = StateRunning
	return cron.NewFlushCache(cache.Bind(ctx, r.flusher), r.logger), nil
}

func (r *Runner) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRunning {
		r.state = StateReady
	}
}

func (r *Runner) startMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.mu.Lock()
	r.server = srv
	r.mu.Unlock()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("Metrics server failed", observability.Err(err))
		}
	}()
	r.logger.Info("Serving metrics", observability.String("addr", addr))
	return nil
}

// Shutdown stops the metrics server and closes backend connections.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateStopped || r.state == StateShuttingDown {
		r.mu.Unlock()
		return nil
	}
	r.state = StateShuttingDown
	srv := r.server
	r.server = nil
	r.mu.Unlock()

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			shutdownErr = ErrShutdownTimeout
		}
	}

	r.mu.Lock()
	r.closeRedis()
	r.state = StateStopped
	r.mu.Unlock()

	return shutdownErr
}

func (r *Runner) closeRedis() {
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			r.logger.Warn("Closing redis client", observability.Err(err))
		}
		r.redis = nil
	}
}

// State returns the current runner state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Config returns the loaded configuration.
func (r *Runner) Config() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Manager returns the cache type registry; nil before Bootstrap.
func (r *Runner) Manager() *cache.Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.manager
}

// Metrics returns the runner's metrics registry.
func (r *Runner) Metrics() *observability.Metrics {
	return r.metrics
}
