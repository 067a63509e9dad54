package batch

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	ListKey          = "mqs"
	FieldName        = "name"
	FieldSize        = "size"
	FieldMaxMessages = "maxmsgs"
)

// ErrNoList is returned when a document has no top-level queue list.
var ErrNoList = errors.New("batch document has no " + ListKey + " list")

// Document is the lookup surface of a batch source.
type Document interface {
	// List returns the elements of the top-level list called name.
	List(name string) ([]Element, bool)
}

// Element is one entry of a Document list.
type Element interface {
	String(field string) (string, bool)
	Int(field string) (int, bool)
}

// Entry is a well-formed queue definition.
type Entry struct {
	Name        string
	Size        int
	MaxMessages int
}

// Skipped describes an element left out of the plan.
type Skipped struct {
	Index int
	Field string
}

func (s Skipped) String() string {
	return fmt.Sprintf("entry %d: missing or invalid %q", s.Index, s.Field)
}

// Plan is the outcome of reading a document: the entries to create and the
// elements that were malformed.
type Plan struct {
	Entries []Entry
	Skipped []Skipped
}

// Entries walks the queue list of doc. Elements missing any field are
// recorded in Skipped and otherwise ignored.
func Entries(doc Document) (Plan, error) {
	if doc == nil {
		return Plan{}, ErrNoList
	}
	elems, ok := doc.List(ListKey)
	if !ok {
		return Plan{}, ErrNoList
	}
	var plan Plan
	for i, elem := range elems {
		if elem == nil {
			plan.Skipped = append(plan.Skipped, Skipped{Index: i, Field: FieldName})
			continue
		}
		name, ok := elem.String(FieldName)
		if !ok || strings.TrimSpace(name) == "" {
			plan.Skipped = append(plan.Skipped, Skipped{Index: i, Field: FieldName})
			continue
		}
		size, ok := elem.Int(FieldSize)
		if !ok {
			plan.Skipped = append(plan.Skipped, Skipped{Index: i, Field: FieldSize})
			continue
		}
		maxMsgs, ok := elem.Int(FieldMaxMessages)
		if !ok {
			plan.Skipped = append(plan.Skipped, Skipped{Index: i, Field: FieldMaxMessages})
			continue
		}
		plan.Entries = append(plan.Entries, Entry{Name: strings.TrimSpace(name), Size: size, MaxMessages: maxMsgs})
	}
	return plan, nil
}

// Tree is a decoded document: nested maps and slices as produced by the
// TOML, YAML and JSON decoders.
type Tree map[string]any

// List implements Document.
func (t Tree) List(name string) ([]Element, bool) {
	raw, ok := t[name]
	if !ok {
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	elems := make([]Element, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			elems = append(elems, nil)
			continue
		}
		elems = append(elems, Node(m))
	}
	return elems, true
}

// Node is a single mapping inside a Tree.
type Node map[string]any

// String implements Element.
func (n Node) String(field string) (string, bool) {
	v, ok := n[field].(string)
	return v, ok
}

// Int implements Element. Integral floats and JSON numbers are accepted;
// strings are not.
func (n Node) Int(field string) (int, bool) {
	switch v := n[field].(type) {
	case int:
		return v, true
	case int64:
		return intFrom64(v)
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt || v < math.MinInt {
			return 0, false
		}
		return int(v), true
	case interface{ Int64() (int64, error) }:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return intFrom64(i)
	default:
		return 0, false
	}
}

func intFrom64(v int64) (int, bool) {
	if v > math.MaxInt || v < math.MinInt {
		return 0, false
	}
	return int(v), true
}
