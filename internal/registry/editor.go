package registry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// DefaultMaxLineLength bounds the content kept from a single registry line.
	DefaultMaxLineLength = 4096
	// DefaultShadowSuffix is appended to the registry path to name the shadow file.
	DefaultShadowSuffix = "~"
)

var (
	// ErrSetup marks edits that could not start: the pattern failed to compile
	// or the registry or its shadow could not be opened. Nothing was modified.
	ErrSetup = errors.New("registry setup failed")
	// ErrAborted marks edits that stopped before the shadow replaced the
	// original. The original is intact.
	ErrAborted = errors.New("registry edit aborted")
)

// Policy decides the fate of a line selected by a Pattern. Returning true
// drops the line. A non-nil error keeps the line and is recorded in the
// EditResult.
type Policy interface {
	Decide(ctx context.Context, line string) (bool, error)
}

// DropMatched drops every selected line unconditionally.
type DropMatched struct{}

// Decide implements Policy.
func (DropMatched) Decide(context.Context, string) (bool, error) {
	return true, nil
}

// Action is an external side effect performed for a selected line.
type Action func(ctx context.Context, name string) error

// DropIf drops a selected line only when Action succeeds for it.
type DropIf struct {
	Action Action
}

// Decide implements Policy.
func (p DropIf) Decide(ctx context.Context, line string) (bool, error) {
	if p.Action == nil {
		return false, errors.New("no action configured")
	}
	if err := p.Action(ctx, line); err != nil {
		return false, err
	}
	return true, nil
}

// Failure records a selected line that the policy kept because of an error.
type Failure struct {
	Line string
	Err  error
}

// EditResult summarizes a rewrite pass. Dropped is -1 when the edit failed.
type EditResult struct {
	Dropped  int
	Removed  []string
	Retained []Failure
}

// Editor rewrites line files through a shadow copy that atomically replaces
// the original once at least one line is dropped.
type Editor struct {
	MaxLineLength int
	ShadowSuffix  string

	// beforeReplace runs after the shadow is synced and closed, before the
	// rename. Tests use it to observe the intermediate state.
	beforeReplace func(shadowPath string) error
}

// NewEditor returns an Editor with default limits.
func NewEditor() Editor {
	return Editor{MaxLineLength: DefaultMaxLineLength, ShadowSuffix: DefaultShadowSuffix}
}

func (e Editor) maxLineLength() int {
	if e.MaxLineLength <= 0 {
		return DefaultMaxLineLength
	}
	return e.MaxLineLength
}

// ShadowPath returns the path of the shadow file used while editing path.
func (e Editor) ShadowPath(path string) string {
	suffix := e.ShadowSuffix
	if suffix == "" {
		suffix = DefaultShadowSuffix
	}
	return path + suffix
}

// Edit streams the file at path, offers every line the pattern selects to
// policy, and keeps the rest verbatim. When no line is dropped the original
// is left untouched.
func (e Editor) Edit(ctx context.Context, path string, pattern Pattern, policy Policy) (EditResult, error) {
	failed := EditResult{Dropped: -1}
	if policy == nil {
		policy = DropMatched{}
	}

	re, err := pattern.compile()
	if err != nil {
		return failed, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return failed, fmt.Errorf("%w: open registry: %w", ErrSetup, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return failed, fmt.Errorf("%w: stat registry: %w", ErrSetup, err)
	}

	shadowPath := e.ShadowPath(path)
	shadow, err := os.OpenFile(shadowPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return failed, fmt.Errorf("%w: open shadow: %w", ErrSetup, err)
	}
	shadowOpen, committed := true, false
	defer func() {
		if shadowOpen {
			_ = shadow.Close()
		}
		if !committed {
			_ = os.Remove(shadowPath)
		}
	}()

	result := EditResult{}
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(shadow)
	limit := e.maxLineLength()
	buf := make([]byte, 0, 256)
	for {
		if err := ctx.Err(); err != nil {
			return failed, fmt.Errorf("%w: %w", ErrAborted, err)
		}
		var line []byte
		line, err = readLine(reader, limit, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return failed, fmt.Errorf("%w: read registry: %w", ErrAborted, err)
		}
		buf = line

		name := trimName(string(line))
		if name == "" || !re.MatchString(name) {
			if err := writeLine(writer, line); err != nil {
				return failed, fmt.Errorf("%w: write shadow: %w", ErrAborted, err)
			}
			continue
		}

		drop, perr := policy.Decide(ctx, name)
		if drop {
			result.Dropped++
			result.Removed = append(result.Removed, name)
			continue
		}
		if perr != nil {
			result.Retained = append(result.Retained, Failure{Line: name, Err: perr})
		}
		if err := writeLine(writer, []byte(name)); err != nil {
			return failed, fmt.Errorf("%w: write shadow: %w", ErrAborted, err)
		}
	}

	if result.Dropped == 0 {
		return result, nil
	}

	if err := writer.Flush(); err != nil {
		return failed, fmt.Errorf("%w: flush shadow: %w", ErrAborted, err)
	}
	if err := shadow.Sync(); err != nil {
		return failed, fmt.Errorf("%w: sync shadow: %w", ErrAborted, err)
	}
	shadowOpen = false
	if err := shadow.Close(); err != nil {
		return failed, fmt.Errorf("%w: close shadow: %w", ErrAborted, err)
	}
	if e.beforeReplace != nil {
		if err := e.beforeReplace(shadowPath); err != nil {
			return failed, fmt.Errorf("%w: %w", ErrAborted, err)
		}
	}
	if err := os.Rename(shadowPath, path); err != nil {
		return failed, fmt.Errorf("%w: replace registry: %w", ErrAborted, err)
	}
	committed = true
	return result, nil
}

// readLine returns the next line without its terminator, keeping at most
// limit bytes of content. The rest of an overlong line is discarded. buf is
// reused as backing storage.
func readLine(r *bufio.Reader, limit int, buf []byte) ([]byte, error) {
	buf = buf[:0]
	read := false
	for {
		chunk, err := r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if room := limit - len(buf); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			buf = append(buf, chunk...)
		}
		switch {
		case err == nil:
			return buf, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return nil, io.EOF
			}
			return buf, nil
		default:
			return nil, err
		}
	}
}

func writeLine(w *bufio.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func trimName(line string) string {
	return strings.Trim(line, " \t\r\n")
}
