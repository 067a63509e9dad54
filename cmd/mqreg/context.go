package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mqreg/internal/config"
	"mqreg/internal/logging"
	"mqreg/internal/mqueue"
	"mqreg/internal/ops"
	"mqreg/internal/registry"
)

// queueFacility builds the queue primitives for a configuration. Tests
// substitute an in-memory implementation.
var queueFacility = func(cfg *config.Config) mqueue.Facility {
	return mqueue.NewKernel(cfg.QueueMode())
}

type commandContext struct {
	settingsFlag *string
	registryFlag *string
	strictFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(settingsFlag, registryFlag *string, strictFlag *bool) *commandContext {
	return &commandContext{
		settingsFlag: settingsFlag,
		registryFlag: registryFlag,
		strictFlag:   strictFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.settingsFlag != nil {
			path = strings.TrimSpace(*c.settingsFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath, c.configExists = resolved, exists
		if c.registryFlag != nil && strings.TrimSpace(*c.registryFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.registryFlag))
			if err != nil {
				c.configErr = fmt.Errorf("resolve registry path: %w", err)
				return
			}
			cfg.Registry.Path = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) strict() bool {
	return c.strictFlag != nil && *c.strictFlag
}

func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger.With(logging.String(logging.FieldInvocation, uuid.NewString())), nil
}

// service wires the registry, the queue facility, and the logger for one
// invocation.
func (c *commandContext) service(cmd *cobra.Command) (*ops.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	editor := registry.NewEditor()
	if cfg.Registry.MaxLineLength > 0 {
		editor.MaxLineLength = cfg.Registry.MaxLineLength
	}
	reg, err := registry.New(registry.Options{
		Path:   cfg.Registry.Path,
		Lock:   cfg.Registry.Lock,
		Editor: editor,
	})
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return ops.NewService(reg, queueFacility(cfg), ops.Options{
		DefaultMaxMessages:  cfg.Queues.DefaultMaxMessages,
		DefaultMessageSize:  cfg.Queues.DefaultMessageSize,
		RecordFailedCreates: cfg.Registry.RecordFailedCreates,
	}, logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
