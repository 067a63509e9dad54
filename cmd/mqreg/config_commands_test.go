package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Registry directory   ok")
	requireContains(t, out, env.registryPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
}

func TestConfigValidateHonorsRegistryFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	override := filepath.Join(env.baseDir, "other", "mq.list")

	out, _, err := runCLI(t, env, "--registry", override, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Registry: "+override)
	requireContains(t, out, filepath.Join(env.baseDir, "other"))
	requireContains(t, out, "Config path: "+env.settingsPath)
}

