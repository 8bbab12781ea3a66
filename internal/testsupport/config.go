// Package testsupport provides shared helpers for package tests: temp-dir
// configs, store construction, and content seeding.
package testsupport

import (
	"path/filepath"
	"testing"

	"castpipe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ContentDir = filepath.Join(base, "content")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Upload.Remote = "r2:test-bucket"
	cfg.Upload.PublicBaseURL = "https://cdn.example.com"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithStageConcurrency overrides the per-stage language concurrency cap.
func WithStageConcurrency(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.StageConcurrency = n
	}
}
