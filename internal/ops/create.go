package ops

import (
	"context"
	"fmt"

	"mqreg/internal/batch"
	"mqreg/internal/logging"
	"mqreg/internal/mqueue"
)

// CreateResult is the outcome of creating one queue.
type CreateResult struct {
	Name   string
	Limits mqueue.Limits
	Err    error
	// Attributes is populated after a successful creation; AttrErr is set
	// when the follow-up query failed.
	Attributes mqueue.Attributes
	AttrErr    error
	// Recorded reports whether the name was appended to the registry.
	Recorded  bool
	RecordErr error
}

// OK reports whether the queue was created.
func (r CreateResult) OK() bool {
	return r.Err == nil
}

// ResolveLimits fills unset (non-positive) limits from the service defaults.
func (s *Service) ResolveLimits(limits mqueue.Limits) mqueue.Limits {
	if limits.MaxMessages <= 0 {
		limits.MaxMessages = s.opts.DefaultMaxMessages
	}
	if limits.MessageSize <= 0 {
		limits.MessageSize = s.opts.DefaultMessageSize
	}
	return limits
}

// Create makes a queue with exactly the given limits and records its name.
// Non-positive limits ask the kernel for its defaults.
func (s *Service) Create(ctx context.Context, name string, limits mqueue.Limits) CreateResult {
	result := CreateResult{Name: name, Limits: limits}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	result.Err = s.queues.Create(name, limits)
	if result.Err == nil {
		result.Attributes, result.AttrErr = s.queues.Attributes(name)
		s.logger.Info("queue created", logging.Queue(name),
			logging.Int("max_messages", limits.MaxMessages), logging.Int("message_size", limits.MessageSize))
	} else {
		s.logger.Debug("queue creation failed", logging.Queue(name), logging.Error(result.Err))
	}

	if result.Err != nil && !s.opts.RecordFailedCreates {
		return result
	}
	if err := s.registry.Add(name); err != nil {
		result.RecordErr = err
		s.logger.Warn("queue name not recorded in registry",
			logging.Queue(name),
			logging.String(logging.FieldRegistry, s.registry.Path()),
			logging.Error(err))
		return result
	}
	result.Recorded = true
	return result
}

// BatchResult is the outcome of creating every queue in a batch document.
type BatchResult struct {
	Created []CreateResult
	Skipped []batch.Skipped
}

// Failed counts entries whose creation failed.
func (r BatchResult) Failed() int {
	n := 0
	for _, c := range r.Created {
		if !c.OK() {
			n++
		}
	}
	return n
}

// CreateBatch creates every well-formed entry of doc with the entry's own
// limits. Malformed entries are skipped. There is no rollback: queues
// created before a failure stay in place.
func (s *Service) CreateBatch(ctx context.Context, doc batch.Document) (BatchResult, error) {
	plan, err := batch.Entries(doc)
	if err != nil {
		return BatchResult{}, err
	}
	result := BatchResult{Skipped: plan.Skipped}
	for _, skipped := range plan.Skipped {
		s.logger.Info("batch entry skipped", logging.Int("index", skipped.Index), logging.String("field", skipped.Field))
	}
	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch interrupted: %w", err)
		}
		limits := mqueue.Limits{MessageSize: entry.Size, MaxMessages: entry.MaxMessages}
		result.Created = append(result.Created, s.Create(ctx, entry.Name, limits))
	}
	return result, nil
}
