// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and metrics.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// Log output formats.
const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// logger is the default implementation, backed by go-kit/log.
type logger struct {
	kit log.Logger
}

// NewLoggerWithOptions creates a logger writing to w with the given level
// (debug, info, warn, error) and format (logfmt, json).
func NewLoggerWithOptions(w io.Writer, lvl, format string) (Logger, error) {
	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}

	sw := log.NewSyncWriter(w)
	var kit log.Logger
	switch strings.ToLower(format) {
	case "", FormatLogfmt:
		kit = log.NewLogfmtLogger(sw)
	case FormatJSON:
		kit = log.NewJSONLogger(sw)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	kit = level.NewFilter(kit, opt)
	kit = log.With(kit, "ts", log.DefaultTimestampUTC)
	return &logger{kit: kit}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &logger{kit: log.NewNopLogger()}
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
}

func (l *logger) Debug(msg string, fields ...Field) {
	_ = level.Debug(l.kit).Log(keyvals(msg, fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	_ = level.Info(l.kit).Log(keyvals(msg, fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	_ = level.Warn(l.kit).Log(keyvals(msg, fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	_ = level.Error(l.kit).Log(keyvals(msg, fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return &logger{kit: log.With(l.kit, kv...)}
}

func keyvals(msg string, fields []Field) []any {
	kv := make([]any, 0, 2+len(fields)*2)
	kv = append(kv, "msg", msg)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
