// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	tkerrors "github.com/cicd-ai-toolkit/cache-flush/pkg/errors"
)

// Flusher flushes cache types; an empty selector means all types.
type Flusher interface {
	FlushContext(ctx context.Context, types []string) (bool, error)
}

// Flush outcome label values.
const (
	OutcomeFlushed = "flushed"
	OutcomeNothing = "nothing"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

type instrumentedFlusher struct {
	next Flusher

	flushes  *prometheus.CounterVec
	duration prometheus.Histogram
}

// Instrument returns a Flusher that records every flush on reg.
func Instrument(next Flusher, reg prometheus.Registerer) Flusher {
	return &instrumentedFlusher{
		next: next,
		flushes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cache_flush_total",
			Help: "Total number of cache flushes by outcome.",
		}, []string{"outcome"}),
		duration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_flush_duration_seconds",
			Help:    "Time taken to flush the selected cache types.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (i *instrumentedFlusher) FlushContext(ctx context.Context, types []string) (bool, error) {
	timer := prometheus.NewTimer(i.duration)
	ok, err := i.next.FlushContext(ctx, types)
	timer.ObserveDuration()

	switch {
	case tkerrors.IsType(err, tkerrors.ErrTimeout):
		i.flushes.WithLabelValues(OutcomeTimeout).Inc()
	case err != nil:
		i.flushes.WithLabelValues(OutcomeError).Inc()
	case ok:
		i.flushes.WithLabelValues(OutcomeFlushed).Inc()
	default:
		i.flushes.WithLabelValues(OutcomeNothing).Inc()
	}
	return ok, err
}

// BoundFlusher pins a Flusher to a context so it can be driven through the
// context-free Flush(types) call used by scheduled tasks.
type BoundFlusher struct {
	ctx context.Context
	f   Flusher
}

// Bind returns a BoundFlusher whose flushes run under ctx. Cancelling ctx
// interrupts an in-flight flush.
func Bind(ctx context.Context, f Flusher) *BoundFlusher {
	return &BoundFlusher{ctx: ctx, f: f}
}

// Flush flushes the selected types under the bound context.
func (b *BoundFlusher) Flush(types []string) (bool, error) {
	return b.f.FlushContext(b.ctx, types)
}
