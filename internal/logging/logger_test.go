package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mqreg/internal/config"
	"mqreg/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hidden at warn level")
	logger.Warn("registry append failed", logging.Queue("/jobs"), logging.Error(errors.New("read-only file system")))

	out := buf.String()
	if strings.Contains(out, "hidden at warn level") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	for _, fragment := range []string{"WARN", "registry append failed", "queue=/jobs", `error="read-only file system"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Stderr: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Stderr: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestComponentLoggerRendersComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Format: "console", Level: "info", Stderr: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger := logging.NewComponentLogger(base, "registry")
	logger.Info("rewrote registry", logging.Int("dropped", 2))

	out := buf.String()
	if !strings.Contains(out, "[registry] rewrote registry") {
		t.Fatalf("expected component prefix, got %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should not repeat as a field: %q", out)
	}
	if !strings.Contains(out, "dropped=2") {
		t.Fatalf("expected dropped field, got %q", out)
	}
}

func TestJSONLoggerWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Stderr: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("queue created", logging.Queue("/jobs"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if record["msg"] != "queue created" || record["level"] != "info" || record["queue"] != "/jobs" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mqreg.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("expected log line in file, got %q", data)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 100) {
		t.Fatal("nop logger should not be enabled")
	}
	logger.Error("discarded")
}

func TestNewFromConfigWritesToEveryOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mqreg.log")
	cfg := config.Default()
	cfg.Logging.Output = []string{"stderr", path, "stderr"}
	var buf bytes.Buffer

	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("registry append failed", logging.Queue("/jobs"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for name, out := range map[string]string{"stderr": buf.String(), "file": string(data)} {
		if strings.Count(out, "registry append failed") != 1 {
			t.Fatalf("expected exactly one record on %s, got %q", name, out)
		}
	}
}
