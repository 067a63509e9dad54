package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mqreg/internal/config"
	"mqreg/internal/mqueue"
	"mqreg/internal/testsupport"
)

type cliTestEnv struct {
	queues       *testsupport.FakeQueues
	registryPath string
	batchPath    string
	settingsPath string
	baseDir      string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.EnvRegistry, "")

	env := &cliTestEnv{
		queues:       testsupport.NewFakeQueues(),
		registryPath: filepath.Join(base, "run", "mq.list"),
		batchPath:    filepath.Join(base, "etc", "mq.conf"),
		settingsPath: filepath.Join(base, "mqreg.toml"),
		baseDir:      base,
	}
	writeSettings(t, env.settingsPath, env.registryPath, env.batchPath)

	previous := queueFacility
	queueFacility = func(*config.Config) mqueue.Facility { return env.queues }
	t.Cleanup(func() { queueFacility = previous })

	return env
}

func writeSettings(t *testing.T, path, registryPath, batchPath string) {
	t.Helper()
	content := fmt.Sprintf(
		"[registry]\npath = %q\n\n[queues]\nbatch_file = %q\n\n[logging]\nlevel = \"warn\"\n",
		registryPath,
		batchPath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--settings", env.settingsPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) registry(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(env.registryPath)
	if err != nil {
		t.Fatalf("read registry: %v", err)
	}
	return string(data)
}

func (env *cliTestEnv) writeRegistry(t *testing.T, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(env.registryPath), 0o755); err != nil {
		t.Fatalf("mkdir registry dir: %v", err)
	}
	if err := os.WriteFile(env.registryPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
