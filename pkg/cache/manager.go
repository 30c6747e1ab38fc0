// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	tkerrors "github.com/cicd-ai-toolkit/cache-flush/pkg/errors"
)

// Type is a named category of cached data (page cache, config cache, ...)
// and the backend it lives in.
type Type struct {
	ID          string
	Label       string
	Description string
	Kind        string // backend kind, for display
	Enabled     bool
	Backend     Cache
}

// TypeStatus is a point-in-time view of a registered type.
type TypeStatus struct {
	ID          string
	Label       string
	Description string
	Kind        string
	Enabled     bool
	Entries     int
	Err         error // set when the entry count could not be read
}

// statusConcurrency bounds the backends Types reads at once.
const statusConcurrency = 4

// Manager owns the cache type registry and flushes types on request.
type Manager struct {
	mu      sync.RWMutex
	types   map[string]Type
	timeout time.Duration
}

// NewManager creates an empty manager. timeout bounds each FlushContext
// call; zero means no bound.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		types:   make(map[string]Type),
		timeout: timeout,
	}
}

// Register adds a cache type. IDs must be unique and non-empty.
func (m *Manager) Register(t Type) error {
	if t.ID == "" {
		return tkerrors.ValidationError("cache type id is empty", nil)
	}
	if t.Backend == nil {
		return tkerrors.ValidationError("cache type has no backend", nil).WithContext("type", t.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.types[t.ID]; ok {
		return tkerrors.ValidationError(fmt.Sprintf("cache type %q already registered", t.ID), nil)
	}
	m.types[t.ID] = t
	return nil
}

// SetEnabled toggles a registered type. Disabled types are skipped by
// FlushContext.
func (m *Manager) SetEnabled(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.types[id]
	if !ok {
		return unknownType(id)
	}
	t.Enabled = enabled
	m.types[id] = t
	return nil
}

// Backend returns the backend of a registered type.
func (m *Manager) Backend(id string) (Cache, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.types[id]
	return t.Backend, ok
}

// Types reports every registered type, sorted by ID. Entry counts are read
// from the backends concurrently.
func (m *Manager) Types(ctx context.Context) []TypeStatus {
	all, _ := m.resolve(nil)

	out := make([]TypeStatus, len(all))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)
	for i, t := range all {
		g.Go(func() error {
			n, err := t.Backend.Len(ctx)
			out[i] = TypeStatus{
				ID:          t.ID,
				Label:       t.Label,
				Description: t.Description,
				Kind:        t.Kind,
				Enabled:     t.Enabled,
				Entries:     n,
				Err:         err,
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// FlushContext clears the selected cache types; an empty selector means
// every type. Disabled types are skipped. It returns true when at least one
// type was cleared and false when there was nothing to flush. Backend
// failures are collected across all selected types and reported together.
// The manager's timeout is applied on top of ctx.
func (m *Manager) FlushContext(ctx context.Context, types []string) (bool, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	targets, err := m.resolve(types)
	if err != nil {
		return false, err
	}

	var errs error
	flushed := 0
	for _, t := range targets {
		if !t.Enabled {
			continue
		}
		if err := t.Backend.Clear(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", t.ID, err))
			continue
		}
		flushed++
	}

	if errs != nil {
		if ctx.Err() != nil {
			return false, tkerrors.TimeoutError("cache flush interrupted", errs)
		}
		return false, tkerrors.CacheError("cache flush failed", errs)
	}
	return flushed > 0, nil
}

// resolve snapshots the selected types so backends are cleared without
// holding the registry lock.
func (m *Manager) resolve(ids []string) ([]Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(ids) == 0 {
		out := make([]Type, 0, len(m.types))
		for _, t := range m.types {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}

	seen := make(map[string]bool, len(ids))
	out := make([]Type, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := m.types[id]
		if !ok {
			return nil, unknownType(id)
		}
		out = append(out, t)
	}
	return out, nil
}

func unknownType(id string) error {
	return tkerrors.ValidationError(fmt.Sprintf("unknown cache type %q", id), nil)
}
