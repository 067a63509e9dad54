package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateQueues(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRegistry() error {
	if c.Registry.Path == "" {
		return errors.New("registry.path must be set")
	}
	if c.Registry.MaxLineLength < 0 {
		return errors.New("registry.max_line_length must be positive")
	}
	return nil
}

func (c *Config) validateQueues() error {
	mode, err := parseMode(c.Queues.Mode)
	if err != nil {
		return fmt.Errorf("queues.mode: %w", err)
	}
	if mode > 0o777 {
		return fmt.Errorf("queues.mode %q carries bits outside 0777", c.Queues.Mode)
	}
	c.queueMode = mode
	c.queueModeParsed = true
	if c.Queues.DefaultMaxMessages < 0 {
		return errors.New("queues.default_max_messages must be zero or positive")
	}
	if c.Queues.DefaultMessageSize < 0 {
		return errors.New("queues.default_message_size must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
