package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gallerist/internal/config"
	"gallerist/internal/testsupport"
)

const testDay = "2024-03-05"

type cliTestEnv struct {
	cfg        *config.Config
	backend    *testsupport.FakeBackend
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("GALLERIST_BACKEND_URL", "")
	t.Setenv("GALLERIST_MEDIA_ROOT", "")

	fb := testsupport.NewFakeBackend(t,
		testsupport.FakeRecord{Path: "/media/date/05_03_2024/sf/1.jpg", Folder: "date/05_03_2024/sf"},
		testsupport.FakeRecord{Path: "/media/date/05_03_2024/sf/2.jpg", Folder: "date/05_03_2024/sf"},
		testsupport.FakeRecord{Path: "/media/date/05_03_2024/sf/3.jpg", Folder: "date/05_03_2024/sf"},
		testsupport.FakeRecord{Path: "/media/date/05_03_2024/sf/jean/4.jpg", Folder: "date/05_03_2024/sf/jean"},
		testsupport.FakeRecord{Path: "/media/date/05_03_2024/nb/5.jpg", Folder: "date/05_03_2024/nb"},
		testsupport.FakeRecord{Path: "/media/date/04_03_2024/old/0.jpg", Folder: "date/04_03_2024/old"},
	)
	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(fb.URL()))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "gallerist", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, backend: fb, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("gallerist %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
