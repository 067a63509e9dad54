package registry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/gofrs/flock"
)

// ErrInvalidName is returned when a name cannot be stored as a single line.
var ErrInvalidName = errors.New("invalid registry name")

// Options configures a Registry.
type Options struct {
	// Path is the list file holding one queue name per line.
	Path string
	// Lock serializes mutations across processes with an advisory lock on
	// Path + ".lock".
	Lock bool
	// Editor controls line limits and the shadow file name. The zero value
	// uses defaults.
	Editor Editor
}

// Registry is the durable record of queue names this tool created.
type Registry struct {
	path   string
	editor Editor
	lock   *flock.Flock
}

// New constructs a Registry bound to opts.Path.
func New(opts Options) (*Registry, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("registry path is required")
	}
	r := &Registry{path: path, editor: opts.Editor}
	if opts.Lock {
		r.lock = flock.New(path + ".lock")
	}
	return r, nil
}

// Path returns the list file location.
func (r *Registry) Path() string {
	return r.path
}

// Add appends name to the registry. Duplicates are not filtered.
func (r *Registry) Add(name string) error {
	name = trimName(name)
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	unlock, err := r.acquire()
	if err != nil {
		return err
	}
	defer unlock()
	return Append(r.path, name)
}

// Names returns every non-blank registry line in file order. A missing
// registry file is an empty registry.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	file, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer file.Close()

	var names []string
	reader := bufio.NewReader(file)
	limit := r.editor.maxLineLength()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := readLine(reader, limit, nil)
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read registry: %w", err)
		}
		if name := trimName(string(line)); name != "" {
			names = append(names, name)
		}
	}
}

// Remove rewrites the registry, offering every line pattern selects to
// policy.
func (r *Registry) Remove(ctx context.Context, pattern Pattern, policy Policy) (EditResult, error) {
	unlock, err := r.acquire()
	if err != nil {
		return EditResult{Dropped: -1}, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	defer unlock()
	return r.editor.Edit(ctx, r.path, pattern, policy)
}

func (r *Registry) acquire() (func(), error) {
	if r.lock == nil {
		return func() {}, nil
	}
	if err := r.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock registry: %w", err)
	}
	return func() { _ = r.lock.Unlock() }, nil
}
