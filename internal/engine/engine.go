// Package engine loads jobs from a store, hands each one to the shard
// manager to decide ownership, and runs one scheduler loop per owned job.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/schedule"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/shard"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/task"
)

// reloadPollInterval is how often Run re-scans the store for jobs that
// were created, deleted, or reassigned since the last scan.
const reloadPollInterval = 10 * time.Second

// Engine owns the set of per-job scheduler loops running in this process.
// Exactly one loop runs per job id at any time: ReloadJobByID cancels an
// id's existing loop before starting its replacement, and the periodic
// rescan only starts loops for ids that have none, so neither can leave two
// loops racing to execute the same job.
type Engine struct {
	store     store.JobStore
	shardMgr  shard.Manager
	registry  *task.Registry
	validator *schedule.Validator

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	running map[string]bool
}

// New constructs an Engine. The validator is shared across all loops since
// its LRU cache amortizes best across many jobs reusing the same cron
// expression shape.
func New(s store.JobStore, shardMgr shard.Manager, registry *task.Registry) *Engine {
	return &Engine{
		store:     s,
		shardMgr:  shardMgr,
		registry:  registry,
		validator: schedule.New(),
		cancels:   make(map[string]context.CancelFunc),
		running:   make(map[string]bool),
	}
}

// Run loads every job this process owns and starts a loop for each, then
// blocks until ctx is cancelled, periodically rescanning the store to pick
// up jobs created or reassigned after startup.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.reconcile(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(reloadPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.stopAll()
			return ctx.Err()
		case <-ticker.C:
			if err := e.reconcile(ctx); err != nil {
				slog.Error("engine: reconcile failed", "error", err)
			}
		}
	}
}

// reconcile loads all jobs, filters to the ones this shard owns, and starts
// a loop for any that don't already have one running. It never stops a
// loop for a job that disappeared from this scan but was merely a
// transient read; loops detect their own job's deletion independently on
// each tick (see runLoop).
func (e *Engine) reconcile(ctx context.Context) error {
	raws, err := e.store.List(ctx)
	if err != nil {
		return err
	}
	jobs := domain.LiftAll(raws)
	local := e.shardMgr.LocalJobs(ctx, jobs)

	slog.Info("engine: reconciled local jobs", "count", len(local))
	for _, job := range local {
		e.ensureRunning(ctx, job.ID)
	}
	return nil
}

// ensureRunning starts a loop for id if one isn't already running.
func (e *Engine) ensureRunning(ctx context.Context, id string) {
	e.mu.Lock()
	if e.running[id] {
		e.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	e.cancels[id] = cancel
	e.running[id] = true
	e.mu.Unlock()

	go e.runLoop(loopCtx, id)
}

// ReloadJobByID restarts the loop for id from scratch, picking up whatever
// the store now holds for it. The HTTP API calls this after every
// create/update/delete so a change takes effect without waiting for the
// next periodic reconcile. Per-job state is never mutated in place: the
// old loop is cancelled and a fresh one is spawned against a fresh
// snapshot, which is what keeps "at most one active loop per id" simple to
// reason about.
func (e *Engine) ReloadJobByID(ctx context.Context, id string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[id]; ok {
		cancel()
	}
	delete(e.cancels, id)
	delete(e.running, id)
	e.mu.Unlock()

	if _, err := e.store.Get(ctx, id); err != nil {
		if err == store.ErrNotFound {
			slog.Info("engine: job deleted, loop not restarted", "id", id)
			return
		}
		slog.Error("engine: failed to look up job for reload", "id", id, "error", err)
		return
	}

	e.ensureRunning(ctx, id)
}

func (e *Engine) stopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, cancel := range e.cancels {
		cancel()
		delete(e.cancels, id)
		delete(e.running, id)
	}
}

// markStopped clears bookkeeping for a loop that exited on its own (job
// deleted or cron became invalid), so a later ensureRunning call for the
// same id is not silently ignored.
func (e *Engine) markStopped(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cancels, id)
	delete(e.running, id)
}
