// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package log

import (
	"bytes"
	"errors"
	stdlog "log"
	"strings"
	"testing"
)

// capture redirects the package logger into a buffer for the test's
// duration.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	initLogger()

	var buf bytes.Buffer
	old := logger
	oldLevel := minLevel
	logger = stdlog.New(&buf, "", 0)
	t.Cleanup(func() {
		logger = old
		SetLevel(oldLevel)
	})
	return &buf
}

func TestInfo(t *testing.T) {
	buf := capture(t)

	Info("panel ready", "width", 128, "height", 250)

	line := buf.String()
	if !strings.Contains(line, "[INFO] panel ready width=128 height=250") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestError(t *testing.T) {
	buf := capture(t)

	Error("flush failed", errors.New("busy line timeout"), "mode", "partial")

	line := buf.String()
	if !strings.Contains(line, "[ERROR] flush failed err=busy line timeout mode=partial") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	// Debug is off by default.
	Debug("sampling busy line")
	if buf.Len() != 0 {
		t.Errorf("Debug emitted %q at the default level", buf.String())
	}

	SetLevel(LevelDebug)
	Debug("sampling busy line")
	if !strings.Contains(buf.String(), "[DEBUG] sampling busy line") {
		t.Errorf("Debug suppressed at LevelDebug: %q", buf.String())
	}

	buf.Reset()
	SetLevel(LevelError)
	Info("panel ready")
	Debug("sampling busy line")
	if buf.Len() != 0 {
		t.Errorf("Info/Debug emitted %q at LevelError", buf.String())
	}
	Error("flush failed", errors.New("boom"))
	if !strings.Contains(buf.String(), "[ERROR] flush failed err=boom") {
		t.Errorf("Error suppressed at LevelError: %q", buf.String())
	}
}

func TestOddKeyValues(t *testing.T) {
	buf := capture(t)

	// A trailing key without a value is dropped rather than mangled.
	Info("panel ready", "width", 128, "dangling")

	line := buf.String()
	if !strings.Contains(line, "panel ready width=128") || strings.Contains(line, "dangling") {
		t.Errorf("unexpected log line %q", line)
	}
}
