package domain

import "testing"

func TestJobRawLiftRoundTrip(t *testing.T) {
	raw := JobRaw{
		ID:       "job-1",
		Name:     "nightly-report",
		Cron:     "0 0 2 * * *",
		TaskType: TaskTypePrint,
		Payload:  `{"message":"hello"}`,
		Status:   StatusScheduled,
	}

	job, err := raw.Lift()
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	print, ok := job.Task.(PrintTask)
	if !ok {
		t.Fatalf("expected PrintTask, got %T", job.Task)
	}
	if print.Message != "hello" {
		t.Fatalf("message = %q, want %q", print.Message, "hello")
	}

	back, err := job.ToRaw()
	if err != nil {
		t.Fatalf("ToRaw: %v", err)
	}
	if back.TaskType != TaskTypePrint {
		t.Fatalf("task_type = %q, want %q", back.TaskType, TaskTypePrint)
	}
	if back.ID != raw.ID || back.Cron != raw.Cron {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestJobRawLiftUnknownTaskType(t *testing.T) {
	raw := JobRaw{ID: "job-2", TaskType: "does_not_exist", Payload: `{}`}
	if _, err := raw.Lift(); err == nil {
		t.Fatal("expected error for unknown task_type")
	}
}

func TestJobRawLiftMalformedPayload(t *testing.T) {
	raw := JobRaw{ID: "job-3", TaskType: TaskTypeShellCommand, Payload: `not json`}
	if _, err := raw.Lift(); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestJobRawLiftDefaultsInvalidStatus(t *testing.T) {
	raw := JobRaw{
		ID:       "job-4",
		TaskType: TaskTypePrint,
		Payload:  `{"message":"x"}`,
		Status:   "bogus",
	}
	job, err := raw.Lift()
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if job.Status != StatusScheduled {
		t.Fatalf("status = %q, want %q", job.Status, StatusScheduled)
	}
}

func TestLiftAllSkipsBadRows(t *testing.T) {
	raws := []JobRaw{
		{ID: "good", TaskType: TaskTypePrint, Payload: `{"message":"ok"}`, Status: StatusScheduled},
		{ID: "bad", TaskType: "unknown", Payload: `{}`},
	}
	jobs := LiftAll(raws)
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	if jobs[0].ID != "good" {
		t.Fatalf("jobs[0].ID = %q, want good", jobs[0].ID)
	}
}
