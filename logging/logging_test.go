package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.Dir = filepath.Join(t.TempDir(), "logs")
	return opts
}

func TestSetupDisabledByDefault(t *testing.T) {
	logger, file, err := Setup(testOptions(t))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if file != nil {
		t.Error("Expected nil log file without debug")
		file.Close()
	}
	if log.Writer() != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", log.Writer())
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug disabled at info level")
	}
}

func TestSetupEnabledWithDebug(t *testing.T) {
	opts := testOptions(t)
	opts.Debug = true

	logger, file, err := Setup(opts)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if file == nil {
		t.Fatal("Expected non-nil log file with debug")
	}
	defer file.Close()

	logger.Debug("blend updated", "x", 0.5)

	path := filepath.Join(opts.Dir, opts.FileName)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
	if out := log.Writer(); out == os.Stdout || out == os.Stderr {
		t.Error("Expected log output kept off the terminal")
	}
}

func TestSetupRotation(t *testing.T) {
	opts := testOptions(t)
	opts.Debug = true
	opts.MaxSize = 1024

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	path := filepath.Join(opts.Dir, opts.FileName)
	if err := os.WriteFile(path, make([]byte, opts.MaxSize+1), 0644); err != nil {
		t.Fatalf("Failed to write large log: %v", err)
	}

	_, file, err := Setup(opts)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer file.Close()

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotated := false
	for _, e := range entries {
		if e.Name() != opts.FileName && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	if !rotated {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > opts.MaxSize {
		t.Errorf("Expected fresh log file, got %d bytes", info.Size())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
