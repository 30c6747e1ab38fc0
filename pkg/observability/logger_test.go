// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLogfmt(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions(&buf, "info", FormatLogfmt)
	require.NoError(t, err)

	l.Info("Cache flushed", String("type", "page"), Int("entries", 3))

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, `msg="Cache flushed"`)
	assert.Contains(t, out, "type=page")
	assert.Contains(t, out, "entries=3")
	assert.Contains(t, out, "ts=")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions(&buf, "warn", FormatLogfmt)
	require.NoError(t, err)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line", Err(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error line")
	assert.Contains(t, out, "error=boom")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	l.With(String("component", "cron")).Debug("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "tick", entry["msg"])
	assert.Equal(t, "cron", entry["component"])
}

func TestLoggerInvalidOptions(t *testing.T) {
	_, err := NewLoggerWithOptions(&bytes.Buffer{}, "trace", FormatLogfmt)
	assert.Error(t, err)

	_, err = NewLoggerWithOptions(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.With(String("k", "v")).Error("discarded")
	})
}
