package ops

import (
	"context"
	"errors"
	"io/fs"

	"mqreg/internal/logging"
	"mqreg/internal/mqueue"
	"mqreg/internal/registry"
)

// ErrNoRegistry is returned by removals when the registry file does not
// exist, meaning no queues have been recorded.
var ErrNoRegistry = errors.New("no queues registered")

// RemoveResult is the outcome of a registry rewrite.
type RemoveResult struct {
	// Removed holds names dropped from the registry.
	Removed []string
	// Retained holds selected names that stayed because their action failed.
	Retained []registry.Failure
}

// Delete unlinks the queue called name and drops it from the registry.
func (s *Service) Delete(ctx context.Context, name string) (RemoveResult, error) {
	return s.remove(ctx, registry.Exact(name), s.unlinkPolicy())
}

// DeleteAll unlinks every registered queue. Names whose unlink fails stay in
// the registry.
func (s *Service) DeleteAll(ctx context.Context) (RemoveResult, error) {
	return s.remove(ctx, registry.MatchAll(), s.unlinkPolicy())
}

// DeleteMatching unlinks every registered queue whose name pattern selects.
func (s *Service) DeleteMatching(ctx context.Context, pattern registry.Pattern) (RemoveResult, error) {
	return s.remove(ctx, pattern, s.unlinkPolicy())
}

// Forget drops selected names from the registry without touching queues.
func (s *Service) Forget(ctx context.Context, pattern registry.Pattern) (RemoveResult, error) {
	return s.remove(ctx, pattern, registry.DropMatched{})
}

// Prune drops registry names whose queue no longer exists. Names whose
// queue exists, or whose state cannot be determined, are kept.
func (s *Service) Prune(ctx context.Context) (RemoveResult, error) {
	return s.remove(ctx, registry.MatchAll(), stalePolicy{queues: s.queues})
}

func (s *Service) unlinkPolicy() registry.Policy {
	return registry.DropIf{Action: func(_ context.Context, name string) error {
		return s.queues.Unlink(name)
	}}
}

func (s *Service) remove(ctx context.Context, pattern registry.Pattern, policy registry.Policy) (RemoveResult, error) {
	edit, err := s.registry.Remove(ctx, pattern, policy)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RemoveResult{}, ErrNoRegistry
		}
		return RemoveResult{}, err
	}
	for _, failure := range edit.Retained {
		s.logger.Debug("registry entry retained", logging.Queue(failure.Line), logging.Error(failure.Err))
	}
	if edit.Dropped > 0 {
		s.logger.Info("registry rewritten",
			logging.String(logging.FieldRegistry, s.registry.Path()),
			logging.Int("dropped", edit.Dropped))
	}
	return RemoveResult{Removed: edit.Removed, Retained: edit.Retained}, nil
}

// stalePolicy drops a line only when the queue is confirmed missing.
type stalePolicy struct {
	queues mqueue.Facility
}

func (p stalePolicy) Decide(_ context.Context, name string) (bool, error) {
	_, err := p.queues.Attributes(name)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, mqueue.ErrNotFound), errors.Is(err, mqueue.ErrInvalidName):
		return true, nil
	default:
		return false, err
	}
}
