// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package context provides context utilities with proper resource cleanup.
package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// signalContext cancels on the first matching OS signal and records which
// signal it was.
type signalContext struct {
	context.Context

	cancel   context.CancelFunc
	stopOnce sync.Once
	ch       chan os.Signal

	mu  sync.Mutex
	sig os.Signal
}

// stop releases the signal subscription. It can be called multiple times.
func (sc *signalContext) stop() {
	sc.stopOnce.Do(func() {
		signal.Stop(sc.ch)
		sc.cancel()
	})
}

func (sc *signalContext) watch() {
	select {
	case s := <-sc.ch:
		sc.mu.Lock()
		sc.sig = s
		sc.mu.Unlock()
		sc.cancel()
	case <-sc.Done():
	}
}

// WithSignal returns a context that is cancelled when any of sigs arrives.
// The returned cancel function must be called to stop signal delivery.
//
// Example:
//
//	ctx, cancel := WithSignal(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer cancel()
func WithSignal(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return notify(ctx, cancel, sigs)
}

func notify(ctx context.Context, cancel context.CancelFunc, sigs []os.Signal) (context.Context, context.CancelFunc) {
	sc := &signalContext{
		Context: ctx,
		cancel:  cancel,
		ch:      make(chan os.Signal, 1),
	}
	signal.Notify(sc.ch, sigs...)
	go sc.watch()
	return sc, sc.stop
}

// Signal reports the signal that cancelled ctx, or nil when ctx was not
// created by WithSignal or was cancelled some other way.
func Signal(ctx context.Context) os.Signal {
	sc, ok := ctx.(*signalContext)
	if !ok {
		return nil
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}
