package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/shard"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/task"
)

func newTestEngine(t *testing.T) (*Engine, store.JobStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.db")
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	reg := task.NewRegistry()
	reg.Register(task.PrintHandler{})

	return New(s, shard.NewLocal(1), reg), s
}

func waitForStatus(t *testing.T, s store.JobStore, id string, want domain.JobStatus, timeout time.Duration) domain.JobRaw {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		job, err := s.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if job.Status == want {
			return job
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %q", id, want)
	return domain.JobRaw{}
}

func TestEngineFiresPrintJobAndRecordsSuccess(t *testing.T) {
	eng, s := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := domain.JobRaw{
		ID:       "job-1",
		Name:     "fast-print",
		Cron:     "*/1 * * * * *",
		TaskType: domain.TaskTypePrint,
		Payload:  `{"message":"hi"}`,
		Status:   domain.StatusScheduled,
	}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	go eng.Run(ctx)

	got := waitForStatus(t, s, "job-1", domain.StatusSuccess, 5*time.Second)
	if got.LastRun == nil {
		t.Fatal("expected last_run to be set")
	}
}

func TestEngineRecordsFailureForErroringHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	reg := task.NewRegistry()
	reg.Register(task.ShellHandler{})
	eng := New(s, shard.NewLocal(1), reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := domain.JobRaw{
		ID:       "job-2",
		Name:     "failing-shell",
		Cron:     "*/1 * * * * *",
		TaskType: domain.TaskTypeShellCommand,
		Payload:  `{"command":"exit 1"}`,
		Status:   domain.StatusScheduled,
	}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	go eng.Run(ctx)

	got := waitForStatus(t, s, "job-2", domain.StatusFailed, 5*time.Second)
	if got.Message == "" {
		t.Fatal("expected failure message to be set")
	}
}

func TestEngineReloadJobByIDSkipsDeletedJob(t *testing.T) {
	eng, s := newTestEngine(t)
	ctx := context.Background()

	// Never created: reload for a non-existent id must be a no-op, not a panic.
	eng.ReloadJobByID(ctx, "does-not-exist")

	if _, err := s.Get(ctx, "does-not-exist"); err != store.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEngineDisabledJobNeverFires(t *testing.T) {
	eng, s := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := domain.JobRaw{
		ID:       "job-3",
		Name:     "disabled",
		Cron:     "*/1 * * * * *",
		TaskType: domain.TaskTypePrint,
		Payload:  `{"message":"nope"}`,
		Status:   domain.StatusDisabled,
	}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	go eng.Run(ctx)
	time.Sleep(1500 * time.Millisecond)

	got, err := s.Get(ctx, "job-3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.StatusDisabled {
		t.Fatalf("status = %q, want disabled (job should never have fired)", got.Status)
	}
}
