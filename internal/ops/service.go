package ops

import (
	"context"
	"errors"
	"log/slog"

	"mqreg/internal/logging"
	"mqreg/internal/mqueue"
	"mqreg/internal/registry"
)

// Options tunes the Service.
type Options struct {
	// DefaultMaxMessages and DefaultMessageSize apply to single creations
	// that leave a limit unset.
	DefaultMaxMessages int
	DefaultMessageSize int
	// RecordFailedCreates appends the queue name to the registry even when
	// creation failed.
	RecordFailedCreates bool
}

// Service runs registry operations.
type Service struct {
	registry *registry.Registry
	queues   mqueue.Facility
	opts     Options
	logger   *slog.Logger
}

// NewService wires a Service. A nil logger discards output.
func NewService(reg *registry.Registry, queues mqueue.Facility, opts Options, logger *slog.Logger) (*Service, error) {
	if reg == nil || queues == nil {
		return nil, errors.New("ops service requires a registry and a queue facility")
	}
	return &Service{
		registry: reg,
		queues:   queues,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "ops"),
	}, nil
}

// RegistryPath returns the list file the service maintains.
func (s *Service) RegistryPath() string {
	return s.registry.Path()
}

// InfoResult is the outcome of querying one queue.
type InfoResult struct {
	Name       string
	Attributes mqueue.Attributes
	Err        error
}

// Info queries a queue directly, independent of the registry.
func (s *Service) Info(name string) InfoResult {
	attrs, err := s.queues.Attributes(name)
	if err != nil {
		s.logger.Debug("queue query failed", logging.Queue(name), logging.Error(err))
	}
	return InfoResult{Name: name, Attributes: attrs, Err: err}
}

// List queries every queue recorded in the registry, in registry order.
// Queues that cannot be opened are reported in their row.
func (s *Service) List(ctx context.Context) ([]InfoResult, error) {
	names, err := s.registry.Names(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]InfoResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.Info(name))
	}
	return results, nil
}
