package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"gallerist/internal/config"
)

// TestDay is the fixed date used by fixtures; its root scope is
// "date/05_03_2024".
var TestDay = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Backend.BaseURL = "http://127.0.0.1:0"
	cfgVal.Backend.MediaRoot = "http://media.test"
	cfgVal.Backend.RequestTimeout = 5
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackendURL points the config at a test server.
func WithBackendURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backend.BaseURL = url
	}
}

// WithMediaRoot overrides the public media root.
func WithMediaRoot(root string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backend.MediaRoot = root
	}
}

// WithClientDepth overrides the review depth.
func WithClientDepth(depth int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Browse.ClientDepth = depth
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
