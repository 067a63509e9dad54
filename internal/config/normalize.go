package config

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// EnvRegistry overrides the registry path when set.
const EnvRegistry = "MQREG_REGISTRY"

func (c *Config) normalize() error {
	if err := c.normalizeRegistry(); err != nil {
		return err
	}
	if err := c.normalizeQueues(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeRegistry() error {
	if value, ok := os.LookupEnv(EnvRegistry); ok && strings.TrimSpace(value) != "" {
		c.Registry.Path = value
	}
	c.Registry.Path = strings.TrimSpace(c.Registry.Path)
	if c.Registry.Path == "" {
		c.Registry.Path = defaultRegistryPath
	}
	var err error
	if c.Registry.Path, err = expandPath(c.Registry.Path); err != nil {
		return fmt.Errorf("registry.path: %w", err)
	}
	if c.Registry.MaxLineLength == 0 {
		c.Registry.MaxLineLength = defaultMaxLineLength
	}
	return nil
}

func (c *Config) normalizeQueues() error {
	c.Queues.Mode = strings.TrimSpace(c.Queues.Mode)
	if c.Queues.Mode == "" {
		c.Queues.Mode = defaultQueueMode
	}
	c.Queues.BatchFile = strings.TrimSpace(c.Queues.BatchFile)
	if c.Queues.BatchFile == "" {
		c.Queues.BatchFile = defaultBatchFile
	}
	var err error
	if c.Queues.BatchFile, err = expandPath(c.Queues.BatchFile); err != nil {
		return fmt.Errorf("queues.batch_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	outputs := make([]string, 0, len(c.Logging.Output))
	for _, output := range c.Logging.Output {
		output = strings.TrimSpace(output)
		switch output {
		case "":
			continue
		case "stderr", "stdout":
		default:
			expanded, err := expandPath(output)
			if err != nil {
				return fmt.Errorf("logging.output: %w", err)
			}
			output = expanded
		}
		outputs = append(outputs, output)
	}
	if len(outputs) == 0 {
		outputs = []string{defaultLogOutput}
	}
	c.Logging.Output = outputs
	return nil
}

func parseMode(value string) (fs.FileMode, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "0o")
	mode, err := strconv.ParseUint(value, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("parse octal mode %q: %w", value, err)
	}
	return fs.FileMode(mode), nil
}
