package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gallerist/internal/config"
	"gallerist/internal/logging"
	"gallerist/internal/services"
)

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "sess-1", true)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "poller").Info("refresh applied", logging.Int("records", 3))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, content)
	}
	for key, want := range map[string]any{
		"msg":                   "refresh applied",
		"level":                 "info",
		logging.FieldComponent:  "poller",
		logging.FieldSessionID:  "sess-1",
		"records":               float64(3),
	} {
		if record[key] != want {
			t.Fatalf("field %s = %v, want %v", key, record[key], want)
		}
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "cart").Info("entry added", logging.String("url", "http://x/media/a b.jpg"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if !strings.Contains(line, "INFO  cart: entry added") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, `url="http://x/media/a b.jpg"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{"stderr"}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithRequestID(context.Background(), "req-xyz")
	ctx = services.WithPath(ctx, "date/01_01_2024")
	logging.WithContext(ctx, base).Info("contextual log")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"req-xyz"`) {
		t.Fatalf("missing correlation id: %s", out)
	}
	if !strings.Contains(out, `"path":"date/01_01_2024"`) {
		t.Fatalf("missing path: %s", out)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "refresh failed", "refresh_failed", logging.String(logging.FieldImpact, "showing previous listing"))

	out := buf.String()
	for _, want := range []string{`"event_type":"refresh_failed"`, `"error_hint":"check logs for details"`, `"impact":"showing previous listing"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestCleanupOldLogsKeepsActiveFile(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -10)
	for _, name := range []string{logging.LogFileName, "gallerist.log.1", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}

	removed := logging.CleanupOldLogs(logging.NewNop(), 5, dir, "")
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	for name, exists := range map[string]bool{logging.LogFileName: true, "gallerist.log.1": false, "notes.txt": true} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists != (err == nil) {
			t.Fatalf("%s exists=%v, want %v", name, err == nil, exists)
		}
	}

	if logging.CleanupOldLogs(nil, 0, dir, "") != 0 {
		t.Fatal("retention 0 must disable pruning")
	}
}
