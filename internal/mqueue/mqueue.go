package mqueue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

// NameMax is the longest queue name accepted, excluding the leading slash.
const NameMax = 255

var (
	// ErrExists is returned when creating a queue that is already present.
	ErrExists = errors.New("queue already exists")
	// ErrNotFound is returned when the named queue does not exist.
	ErrNotFound = errors.New("queue does not exist")
	// ErrPermission is returned when the caller may not access the queue.
	ErrPermission = errors.New("permission denied")
	// ErrInvalidName is returned for names that break the mq naming rules.
	ErrInvalidName = errors.New("invalid queue name")
	// ErrInvalidLimits is returned when the kernel rejects requested limits.
	ErrInvalidLimits = errors.New("invalid queue limits")
)

// Attributes mirrors struct mq_attr.
type Attributes struct {
	MaxMessages     int64 `json:"max_messages"`
	MessageSize     int64 `json:"message_size"`
	CurrentMessages int64 `json:"current_messages"`
	NonBlocking     bool  `json:"non_blocking"`
}

// Mode renders the blocking flag the way mq tools traditionally print it.
func (a Attributes) Mode() string {
	if a.NonBlocking {
		return "NOBLOCK"
	}
	return "BLOCK"
}

// Limits are the capacity settings requested at creation time.
type Limits struct {
	MessageSize int
	MaxMessages int
}

// Explicit reports whether both limits are set. Otherwise the system
// defaults apply to both.
func (l Limits) Explicit() bool {
	return l.MessageSize > 0 && l.MaxMessages > 0
}

// Facility is the set of queue primitives the registry relies upon.
type Facility interface {
	// Create makes a new queue and fails with ErrExists if one is present.
	Create(name string, limits Limits) error
	// Unlink removes a queue from the namespace.
	Unlink(name string) error
	// Attributes opens the queue read-only and returns its attributes.
	Attributes(name string) (Attributes, error)
}

// ValidateName checks name against the mq_overview(7) naming rules.
func ValidateName(name string) error {
	switch {
	case !strings.HasPrefix(name, "/"):
		return fmt.Errorf("%w: %q must begin with '/'", ErrInvalidName, name)
	case len(name) == 1:
		return fmt.Errorf("%w: %q is empty after '/'", ErrInvalidName, name)
	case strings.Contains(name[1:], "/"):
		return fmt.Errorf("%w: %q contains a second '/'", ErrInvalidName, name)
	case len(name)-1 > NameMax:
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidName, name, NameMax)
	}
	return nil
}

// classify tags an OS error with the matching sentinel while keeping the
// original error in the chain.
func classify(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var marker error
	switch {
	case errors.Is(err, fs.ErrExist):
		marker = ErrExists
	case errors.Is(err, fs.ErrNotExist):
		marker = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		marker = ErrPermission
	case errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENAMETOOLONG):
		marker = ErrInvalidName
	default:
		return fmt.Errorf("%s %s: %w", op, name, err)
	}
	return fmt.Errorf("%w: %s %s: %w", marker, op, name, err)
}

// classifyCreate is classify for queue creation. With explicit limits,
// EINVAL reports limits the kernel rejected (above msg_max or msgsize_max).
func classifyCreate(name string, explicit bool, err error) error {
	if explicit && errors.Is(err, syscall.EINVAL) {
		return fmt.Errorf("%w: create %s: %w", ErrInvalidLimits, name, err)
	}
	return classify("create", name, err)
}
