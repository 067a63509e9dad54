package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// systemConfigPath is consulted when no user configuration exists.
var systemConfigPath = "/etc/mq/mqreg.toml"

// Registry contains settings for the queue list file.
type Registry struct {
	Path          string `toml:"path"`
	Lock          bool   `toml:"lock"`
	MaxLineLength int    `toml:"max_line_length"`
	// RecordFailedCreates appends a name to the registry even when the
	// queue could not be created. Such entries are stale until pruned.
	RecordFailedCreates bool `toml:"record_failed_creates"`
}

// Queues contains settings applied when creating queues.
type Queues struct {
	Mode               string `toml:"mode"`
	DefaultMaxMessages int    `toml:"default_max_messages"`
	DefaultMessageSize int    `toml:"default_message_size"`
	BatchFile          string `toml:"batch_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// Output lists log destinations: "stderr", "stdout", or file paths.
	Output []string `toml:"output"`
}

// Config encapsulates all configuration values for mqreg.
type Config struct {
	Registry Registry `toml:"registry"`
	Queues   Queues   `toml:"queues"`
	Logging  Logging  `toml:"logging"`

	queueMode       fs.FileMode
	queueModeParsed bool
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mqreg/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(systemConfigPath); err == nil && !info.IsDir() {
		return systemConfigPath, true, nil
	}

	return defaultPath, false, nil
}

// QueueMode returns the parsed access mode for created queues.
func (c *Config) QueueMode() fs.FileMode {
	if !c.queueModeParsed {
		mode, err := parseMode(c.Queues.Mode)
		if err != nil {
			mode, _ = parseMode(defaultQueueMode)
		}
		return mode
	}
	return c.queueMode
}

// EnsureRegistryDir creates the directory holding the registry file.
func (c *Config) EnsureRegistryDir() error {
	dir := filepath.Dir(c.Registry.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory %q: %w", dir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
