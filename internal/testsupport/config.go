package testsupport

import (
	"path/filepath"
	"testing"

	"oshash/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose index lives in a unique temp directory.
// It applies any provided options on top of the repository defaults.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Index.Path = filepath.Join(base, "index", "index.db")
	cfgVal.Hash.Workers = 4

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

// WithWindow overrides the sampling window on the test config.
func WithWindow(window int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Hash.Window = window
	}
}

// WithStrict enables strict mode on the test config.
func WithStrict() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Hash.Strict = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Index.Path))
}
