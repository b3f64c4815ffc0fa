package testsupport

import (
	"path/filepath"
	"testing"

	"cadence/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithVideoConcurrency overrides the video slot count on the test config.
func WithVideoConcurrency(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.VideoConcurrency = n
	}
}
