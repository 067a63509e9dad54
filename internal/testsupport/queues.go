package testsupport

import (
	"fmt"
	"sort"
	"sync"
	"syscall"

	"mqreg/internal/mqueue"
)

// FakeQueues is an in-memory mqueue.Facility. Errors can be injected per
// queue name and operation.
type FakeQueues struct {
	mu       sync.Mutex
	queues   map[string]mqueue.Attributes
	failures map[string]error
	calls    []string
}

// NewFakeQueues returns an empty FakeQueues.
func NewFakeQueues() *FakeQueues {
	return &FakeQueues{
		queues:   make(map[string]mqueue.Attributes),
		failures: make(map[string]error),
	}
}

// Fail makes op ("create", "unlink", or "attributes") fail for name with err.
func (f *FakeQueues) Fail(op, name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+" "+name] = err
}

// Put installs a queue directly, bypassing Create.
func (f *FakeQueues) Put(name string, attrs mqueue.Attributes) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[name] = attrs
}

// Exists reports whether name is present.
func (f *FakeQueues) Exists(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.queues[name]
	return ok
}

// Names returns present queue names in sorted order.
func (f *FakeQueues) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.queues))
	for name := range f.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calls returns the operations performed so far as "op name" strings.
func (f *FakeQueues) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeQueues) record(op, name string) error {
	f.calls = append(f.calls, op+" "+name)
	if err, ok := f.failures[op+" "+name]; ok {
		return err
	}
	return mqueue.ValidateName(name)
}

// Create implements mqueue.Facility.
func (f *FakeQueues) Create(name string, limits mqueue.Limits) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create", name); err != nil {
		return err
	}
	if _, ok := f.queues[name]; ok {
		return fmt.Errorf("%w: create %s: %w", mqueue.ErrExists, name, syscall.EEXIST)
	}
	attrs := mqueue.Attributes{MaxMessages: 10, MessageSize: 8192}
	if limits.Explicit() {
		attrs = mqueue.Attributes{MaxMessages: int64(limits.MaxMessages), MessageSize: int64(limits.MessageSize)}
	}
	f.queues[name] = attrs
	return nil
}

// Unlink implements mqueue.Facility.
func (f *FakeQueues) Unlink(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("unlink", name); err != nil {
		return err
	}
	if _, ok := f.queues[name]; !ok {
		return fmt.Errorf("%w: unlink %s: %w", mqueue.ErrNotFound, name, syscall.ENOENT)
	}
	delete(f.queues, name)
	return nil
}

// Attributes implements mqueue.Facility.
func (f *FakeQueues) Attributes(name string) (mqueue.Attributes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("attributes", name); err != nil {
		return mqueue.Attributes{}, err
	}
	attrs, ok := f.queues[name]
	if !ok {
		return mqueue.Attributes{}, fmt.Errorf("%w: open %s: %w", mqueue.ErrNotFound, name, syscall.ENOENT)
	}
	return attrs, nil
}
