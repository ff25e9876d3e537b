package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/telemetry"
)

// minSleep is the floor applied when a computed next-fire time is in the
// past (clock skew, or the previous tick's handler overran its slot).
const minSleep = 1 * time.Second

// runLoop owns one job's lifecycle: sleep until the next cron fire, then
// dispatch → record, forever, until ctx is cancelled or the job is deleted
// or disabled. It carries only the job id; everything else is re-read from
// the store each iteration, per the spec's "no shared job state by
// reference across loops" design note.
func (e *Engine) runLoop(ctx context.Context, id string) {
	// A loop cancelled by ReloadJobByID or stopAll already had its
	// bookkeeping cleared (and possibly replaced by a newer loop's) by the
	// canceller; only a loop that exits on its own clears it here.
	defer func() {
		if ctx.Err() == nil {
			e.markStopped(id)
		}
	}()

	for {
		raw, err := e.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				slog.Info("scheduler loop exiting: job deleted", "id", id)
				return
			}
			slog.Error("scheduler loop: failed to read job, retrying", "id", id, "error", err)
			if !sleepCtx(ctx, minSleep) {
				return
			}
			continue
		}

		if raw.Status == domain.StatusDisabled {
			slog.Info("scheduler loop exiting: job disabled", "id", id)
			return
		}

		// Boot/reload recovery: a persisted Running/Start is a hint only.
		raw.Status = domain.StatusScheduled
		e.persist(ctx, raw)

		job, err := raw.Lift()
		if err != nil {
			slog.Error("scheduler loop exiting: job payload unliftable", "id", id, "error", err)
			return
		}

		next, err := e.validator.NextRunAfter(job.Cron, time.Now().UTC())
		if err != nil {
			slog.Error("scheduler loop exiting: invalid cron expression", "id", id, "cron", job.Cron, "error", err)
			raw.Status = domain.StatusDisabled
			raw.Message = "invalid cron expression: " + err.Error()
			e.persist(ctx, raw)
			return
		}

		sleepFor := time.Until(next)
		if sleepFor <= 0 {
			sleepFor = minSleep
		}
		if !sleepCtx(ctx, sleepFor) {
			return
		}

		e.fire(ctx, id, job)
	}
}

// fire runs one tick's Start → Running → Success/Failed transitions and
// persists each. Persistence failures are logged and otherwise ignored per
// the spec's best-effort persistence policy; the next successful write
// resyncs state.
func (e *Engine) fire(ctx context.Context, id string, job domain.Job) {
	ctx, span := telemetry.Tracer().Start(ctx, "scheduler.tick")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", id),
		attribute.String("job.task_type", job.Task.TaskType()),
	)

	raw, err := job.ToRaw()
	if err != nil {
		slog.Error("scheduler loop: failed to encode job for persistence", "id", id, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	raw.Status = domain.StatusStart
	e.persist(ctx, raw)

	raw.Status = domain.StatusRunning
	e.persist(ctx, raw)

	slog.Info("executing task", "id", id, "name", job.Name, "task_type", job.Task.TaskType())
	dispatchErr := e.registry.Dispatch(ctx, job.Task)

	now := time.Now().UTC()
	raw.LastRun = &now
	if dispatchErr != nil {
		span.SetStatus(codes.Error, dispatchErr.Error())
		slog.Error("task execution failed", "id", id, "name", job.Name, "error", dispatchErr)
		raw.Status = domain.StatusFailed
		raw.Message = dispatchErr.Error()
	} else {
		raw.Status = domain.StatusSuccess
		raw.Message = ""
	}
	e.persist(ctx, raw)
}

func (e *Engine) persist(ctx context.Context, raw domain.JobRaw) {
	if err := e.store.Update(ctx, raw); err != nil {
		slog.Warn("scheduler loop: failed to persist job state, continuing", "id", raw.ID, "status", raw.Status, "error", err)
	}
}

// sleepCtx sleeps for d or returns false early if ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
