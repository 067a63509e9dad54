package config

import (
	"path/filepath"
	"testing"
)

// isolateSystemConfig points the system-wide lookup at an empty directory.
func isolateSystemConfig(t testing.TB) {
	t.Helper()
	previous := systemConfigPath
	systemConfigPath = filepath.Join(t.TempDir(), "mqreg.toml")
	t.Cleanup(func() { systemConfigPath = previous })
}

var IsolateSystemConfig = isolateSystemConfig
