package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("configured", "provider", "gemini", "api_key", "AIza-secret", "input_tokens", 12)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want redacted", fields["api_key"])
	}
	if fields["provider"] != "gemini" {
		t.Errorf("provider = %v", fields["provider"])
	}
	if fields["input_tokens"] != int64(12) {
		t.Errorf("input_tokens = %v (%T)", fields["input_tokens"], fields["input_tokens"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("session_id", "abc", "token", "t0k")

	l.Warn("slow response")

	fields := logs.All()[0].ContextMap()
	if fields["session_id"] != "abc" {
		t.Errorf("session_id = %v", fields["session_id"])
	}
	if fields["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want redacted", fields["token"])
	}
}

func TestOddKeyValueCount(t *testing.T) {
	got := sanitizeKVs([]any{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Errorf("sanitizeKVs = %v", got)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizgen.log")
	l, err := New(Options{Mode: "prod", Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hello", "k", "v")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDefaultPathUsesXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/tmp/state", "quizgen", "quizgen.log") {
		t.Errorf("DefaultPath = %q", got)
	}
}
