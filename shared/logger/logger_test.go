// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
)

func captureOutput(fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	flags := log.Flags()
	log.SetFlags(0)
	defer log.SetFlags(flags)
	fn()
	return buf.String()
}

func TestLogWritesJSON(t *testing.T) {
	l := New("test-component")
	out := captureOutput(func() {
		l.Info("req-123", "hello", map[string]interface{}{"count": 4})
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if entry.Level != INFO {
		t.Errorf("level = %s, want INFO", entry.Level)
	}
	if entry.Component != "test-component" {
		t.Errorf("component = %q", entry.Component)
	}
	if entry.RequestID != "req-123" {
		t.Errorf("request_id = %q", entry.RequestID)
	}
	if entry.Fields["count"].(float64) != 4 {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestInfoWithDuration(t *testing.T) {
	l := New("test-component")
	out := captureOutput(func() {
		l.InfoWithDuration("", "done", 12.5, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry.Fields["duration_ms"].(float64) != 12.5 {
		t.Errorf("duration_ms = %v", entry.Fields["duration_ms"])
	}
}

func TestErrorWithErr(t *testing.T) {
	l := New("test-component")
	out := captureOutput(func() {
		l.ErrorWithErr("req-9", "failed", errTest, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry.Level != ERROR {
		t.Errorf("level = %s, want ERROR", entry.Level)
	}
	if entry.Fields["error"] != "boom" {
		t.Errorf("error field = %v", entry.Fields["error"])
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "boom" }
