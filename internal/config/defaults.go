package config

const (
	defaultRegistryPath        = "/run/mq.list"
	defaultRegistryLock        = true
	defaultMaxLineLength       = 4096
	defaultRecordFailedCreates = true
	defaultQueueMode           = "0666"
	defaultMaxMessages         = 10
	defaultMessageSize         = 0
	defaultBatchFile           = "/etc/mq/mq.conf"
	defaultLogFormat           = "console"
	defaultLogLevel            = "warn"
	defaultLogOutput           = "stderr"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Registry: Registry{
			Path:                defaultRegistryPath,
			Lock:                defaultRegistryLock,
			MaxLineLength:       defaultMaxLineLength,
			RecordFailedCreates: defaultRecordFailedCreates,
		},
		Queues: Queues{
			Mode:               defaultQueueMode,
			DefaultMaxMessages: defaultMaxMessages,
			DefaultMessageSize: defaultMessageSize,
			BatchFile:          defaultBatchFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Output: []string{defaultLogOutput},
		},
	}
}
