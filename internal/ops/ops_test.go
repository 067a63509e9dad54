package ops_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"mqreg/internal/batch"
	"mqreg/internal/config"
	"mqreg/internal/mqueue"
	"mqreg/internal/ops"
	"mqreg/internal/registry"
	"mqreg/internal/testsupport"
)

func newService(t *testing.T, cfg *config.Config) (*ops.Service, *testsupport.FakeQueues) {
	t.Helper()
	reg, err := registry.New(registry.Options{Path: cfg.Registry.Path, Lock: cfg.Registry.Lock})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	queues := testsupport.NewFakeQueues()
	svc, err := ops.NewService(reg, queues, ops.Options{
		DefaultMaxMessages:  cfg.Queues.DefaultMaxMessages,
		DefaultMessageSize:  cfg.Queues.DefaultMessageSize,
		RecordFailedCreates: cfg.Registry.RecordFailedCreates,
	}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, queues
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := ops.NewService(nil, testsupport.NewFakeQueues(), ops.Options{}, nil); err == nil {
		t.Fatal("expected error for nil registry")
	}
}

func TestCreateThenDeleteLeavesEmptyRegistry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	ctx := context.Background()

	created := svc.Create(ctx, "/jobs", mqueue.Limits{MessageSize: 1024, MaxMessages: 5})
	if !created.OK() || !created.Recorded {
		t.Fatalf("unexpected create result %+v", created)
	}
	if created.Attributes.MaxMessages != 5 || created.Attributes.MessageSize != 1024 {
		t.Fatalf("unexpected attributes %+v", created.Attributes)
	}
	if got := readFile(t, cfg.Registry.Path); got != "/jobs\n" {
		t.Fatalf("registry = %q", got)
	}

	removed, err := svc.Delete(ctx, "/jobs")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(removed.Removed) != 1 || removed.Removed[0] != "/jobs" {
		t.Fatalf("unexpected removal %+v", removed)
	}
	if queues.Exists("/jobs") {
		t.Fatal("queue should be unlinked")
	}
	if got := readFile(t, cfg.Registry.Path); got != "" {
		t.Fatalf("registry should be empty, got %q", got)
	}
}

func TestCreateFailureIsRecordedByDefault(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	queues.Put("/taken", mqueue.Attributes{MaxMessages: 10, MessageSize: 8192})

	result := svc.Create(context.Background(), "/taken", mqueue.Limits{})
	if result.OK() {
		t.Fatal("expected create failure")
	}
	if !errors.Is(result.Err, mqueue.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", result.Err)
	}
	if !result.Recorded {
		t.Fatal("failed create should still be recorded")
	}
	if got := readFile(t, cfg.Registry.Path); got != "/taken\n" {
		t.Fatalf("registry = %q", got)
	}
}

func TestCreateFailureNotRecordedWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRecordFailedCreates(false))
	svc, queues := newService(t, cfg)
	queues.Fail("create", "/denied", mqueue.ErrPermission)

	result := svc.Create(context.Background(), "/denied", mqueue.Limits{})
	if result.OK() || result.Recorded {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(cfg.Registry.Path); !os.IsNotExist(err) {
		t.Fatalf("registry should not exist, stat err=%v", err)
	}
}

func TestCreateSucceedsWhenRegistryAppendFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLock())
	cfg.Registry.Path = filepath.Join(testsupport.BaseDir(cfg), "missing", "mq.list")
	svc, queues := newService(t, cfg)

	result := svc.Create(context.Background(), "/jobs", mqueue.Limits{})
	if !result.OK() {
		t.Fatalf("create should succeed: %v", result.Err)
	}
	if result.Recorded || result.RecordErr == nil {
		t.Fatalf("expected record failure, got %+v", result)
	}
	if !queues.Exists("/jobs") {
		t.Fatal("queue should exist")
	}
}

func TestResolveLimitsFillsDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, _ := newService(t, cfg)

	got := svc.ResolveLimits(mqueue.Limits{MessageSize: 256})
	if got.MaxMessages != cfg.Queues.DefaultMaxMessages || got.MessageSize != 256 {
		t.Fatalf("unexpected limits %+v", got)
	}
}

func TestCreateBatchSkipsMalformedEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)

	doc, err := batch.Decode([]byte(`
[[mqs]]
name = "/good"
size = 128
maxmsgs = 4

[[mqs]]
name = "/bad"
maxmsgs = 4
`), batch.FormatTOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	result, err := svc.CreateBatch(context.Background(), doc)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0].Name != "/good" {
		t.Fatalf("unexpected created %+v", result.Created)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Index != 1 {
		t.Fatalf("unexpected skipped %+v", result.Skipped)
	}
	if result.Failed() != 0 {
		t.Fatalf("expected no failures, got %d", result.Failed())
	}
	if queues.Exists("/bad") {
		t.Fatal("malformed entry must not be created")
	}
	if got := readFile(t, cfg.Registry.Path); got != "/good\n" {
		t.Fatalf("registry = %q", got)
	}
}

func TestDeleteAllRetainsFailedUnlinks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	ctx := context.Background()
	for _, name := range []string{"/a", "/b", "/c"} {
		svc.Create(ctx, name, mqueue.Limits{})
	}
	queues.Fail("unlink", "/b", mqueue.ErrPermission)

	result, err := svc.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if strings.Join(result.Removed, ",") != "/a,/c" {
		t.Fatalf("unexpected removed %v", result.Removed)
	}
	if len(result.Retained) != 1 || result.Retained[0].Line != "/b" {
		t.Fatalf("unexpected retained %+v", result.Retained)
	}
	if got := readFile(t, cfg.Registry.Path); got != "/b\n" {
		t.Fatalf("registry = %q", got)
	}
}

func TestDeleteAllRetainsNamesOfMissingQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, _ := newService(t, cfg)
	writeFile(t, cfg.Registry.Path, "/gone\n")

	result, err := svc.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if len(result.Removed) != 0 || len(result.Retained) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := readFile(t, cfg.Registry.Path); got != "/gone\n" {
		t.Fatalf("registry = %q", got)
	}
}

func TestDeleteWithoutRegistry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, _ := newService(t, cfg)

	if _, err := svc.Delete(context.Background(), "/jobs"); !errors.Is(err, ops.ErrNoRegistry) {
		t.Fatalf("expected ErrNoRegistry, got %v", err)
	}
}

func TestDeleteMatchingUsesPattern(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	ctx := context.Background()
	for _, name := range []string{"/jobs-1", "/jobs-2", "/events"} {
		svc.Create(ctx, name, mqueue.Limits{})
	}

	result, err := svc.DeleteMatching(ctx, registry.Regex("^/jobs", 0))
	if err != nil {
		t.Fatalf("DeleteMatching: %v", err)
	}
	if strings.Join(result.Removed, ",") != "/jobs-1,/jobs-2" {
		t.Fatalf("unexpected removed %v", result.Removed)
	}
	if strings.Join(queues.Names(), ",") != "/events" {
		t.Fatalf("unexpected queues %v", queues.Names())
	}
}

func TestForgetLeavesQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	ctx := context.Background()
	svc.Create(ctx, "/jobs", mqueue.Limits{})

	result, err := svc.Forget(ctx, registry.Exact("/jobs"))
	if err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if len(result.Removed) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !queues.Exists("/jobs") {
		t.Fatal("forget must not unlink")
	}
	for _, call := range queues.Calls() {
		if strings.HasPrefix(call, "unlink") {
			t.Fatalf("unexpected call %s", call)
		}
	}
}

func TestPruneDropsStaleNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	queues.Put("/live", mqueue.Attributes{})
	queues.Put("/locked", mqueue.Attributes{})
	queues.Fail("attributes", "/locked", syscall.EACCES)
	writeFile(t, cfg.Registry.Path, "/live\n/gone\nbogus\n/locked\n")

	result, err := svc.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if strings.Join(result.Removed, ",") != "/gone,bogus" {
		t.Fatalf("unexpected removed %v", result.Removed)
	}
	if len(result.Retained) != 1 || result.Retained[0].Line != "/locked" {
		t.Fatalf("unexpected retained %+v", result.Retained)
	}
	if got := readFile(t, cfg.Registry.Path); got != "/live\n/locked\n" {
		t.Fatalf("registry = %q", got)
	}
}

func TestListReportsOpenFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, queues := newService(t, cfg)
	queues.Put("/jobs", mqueue.Attributes{MaxMessages: 5, MessageSize: 1024, CurrentMessages: 2})
	writeFile(t, cfg.Registry.Path, "/jobs\n\n/gone\n")

	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Err != nil || rows[0].Attributes.CurrentMessages != 2 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if !errors.Is(rows[1].Err, mqueue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", rows[1].Err)
	}
}

func TestListWithoutRegistryIsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc, _ := newService(t, cfg)

	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}
