package testsupport

import (
	"path/filepath"
	"testing"

	"mqreg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose registry and batch paths live in a
// unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Registry.Path = filepath.Join(base, "run", "mq.list")
	cfgVal.Queues.BatchFile = filepath.Join(base, "etc", "mq.conf")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureRegistryDir(); err != nil {
		t.Fatalf("ensure registry dir: %v", err)
	}
	return builder.cfg
}

// WithoutLock disables the registry advisory lock.
func WithoutLock() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.Lock = false
	}
}

// WithRecordFailedCreates toggles recording of names whose creation failed.
func WithRecordFailedCreates(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.RecordFailedCreates = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Registry.Path))
}
