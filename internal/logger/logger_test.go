package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{DataDir: dataDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(LogPath(dataDir))); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Info("entry created", "id", "abc")
}

func TestInitWithOutput(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Debug("hidden")
	Warn("quota low", "remaining", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged outside debug mode: %q", out)
	}
	if !strings.Contains(out, "quota low") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestDebugMode(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Debug: true, Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	With("component", "journal").Debug("loaded")
	if !strings.Contains(buf.String(), "component=journal") {
		t.Errorf("expected child logger fields in output, got %q", buf.String())
	}
}

func TestHelpersAreNilSafe(t *testing.T) {
	Logger = nil

	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
	if With("k", "v") != nil {
		t.Error("With should return nil before Init")
	}
}
