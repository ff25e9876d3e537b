// Package domain holds the persistent and runtime job model shared by the
// store, shard, task, and engine packages.
package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// JobStatus is the lifecycle state of a scheduled job. String form is
// lower-case, matching the persisted column value.
type JobStatus string

const (
	StatusStart     JobStatus = "start"
	StatusScheduled JobStatus = "scheduled"
	StatusRunning   JobStatus = "running"
	StatusSuccess   JobStatus = "success"
	StatusFailed    JobStatus = "failed"
	StatusDisabled  JobStatus = "disabled"
)

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusStart, StatusScheduled, StatusRunning, StatusSuccess, StatusFailed, StatusDisabled:
		return true
	default:
		return false
	}
}

var (
	// ErrUnknownTaskType is returned by Lift when task_type names no
	// registered payload variant.
	ErrUnknownTaskType = errors.New("unknown task_type")
	// ErrMalformedPayload is returned by Lift when the payload JSON does
	// not match the shape task_type expects.
	ErrMalformedPayload = errors.New("malformed task payload")
)

// JobRaw is the persisted form of a job: task_type + payload are opaque
// strings until Lift reconstitutes them into a typed TaskPayload.
type JobRaw struct {
	ID       string
	Name     string
	Cron     string
	TaskType string
	Payload  string // JSON fragment (the variant body only, no envelope)
	LastRun  *time.Time
	Status   JobStatus
	Message  string
}

// Job is the runtime form: task_type+payload have been lifted into a typed
// TaskPayload.
type Job struct {
	ID      string
	Name    string
	Cron    string
	Task    TaskPayload
	LastRun *time.Time
	Status  JobStatus
	Message string
}

// Lift reconstitutes the typed TaskPayload from the raw task_type/payload
// pair. A lift failure is always one of ErrUnknownTaskType or
// ErrMalformedPayload wrapped with context; callers treat it as a per-row
// error, not a fatal one.
func (r JobRaw) Lift() (Job, error) {
	task, err := LiftTaskPayload(r.TaskType, r.Payload)
	if err != nil {
		return Job{}, fmt.Errorf("lift job %s: %w", r.ID, err)
	}
	status := r.Status
	if !status.Valid() {
		status = StatusScheduled
	}
	return Job{
		ID:      r.ID,
		Name:    r.Name,
		Cron:    r.Cron,
		Task:    task,
		LastRun: r.LastRun,
		Status:  status,
		Message: r.Message,
	}, nil
}

// ToRaw projects a runtime Job back to its persisted form, re-encoding the
// typed payload. Used by callers that mutate a Job in memory and need to
// write it back through a JobStore.
func (j Job) ToRaw() (JobRaw, error) {
	payload, err := EncodePayload(j.Task)
	if err != nil {
		return JobRaw{}, fmt.Errorf("encode job %s: %w", j.ID, err)
	}
	return JobRaw{
		ID:       j.ID,
		Name:     j.Name,
		Cron:     j.Cron,
		TaskType: j.Task.TaskType(),
		Payload:  string(payload),
		LastRun:  j.LastRun,
		Status:   j.Status,
		Message:  j.Message,
	}, nil
}

// LiftAll lifts every raw row, logging and skipping any that fail. It never
// fails the caller: a bad row is a log line, not a propagated error. The
// engine calls it on the store's rows before handing the lifted jobs to a
// shard.Manager's LocalJobs.
func LiftAll(raws []JobRaw) []Job {
	jobs := make([]Job, 0, len(raws))
	for _, raw := range raws {
		job, err := raw.Lift()
		if err != nil {
			slog.Warn("skipping job with unliftable payload", "id", raw.ID, "task_type", raw.TaskType, "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}
