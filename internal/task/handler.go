// Package task dispatches a domain.TaskPayload to the handler registered
// for its task type.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// Handler executes one task type. Implementations must be safe for
// concurrent use: the engine invokes Handle from many per-job goroutines.
type Handler interface {
	TaskType() string
	Handle(ctx context.Context, payload domain.TaskPayload) error
}

// Registry resolves a task type string to its Handler. The zero value is
// not usable; construct with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry. Callers register the built-in
// handlers (or their own) explicitly rather than getting them for free, so
// a deployment can opt out of handlers it doesn't trust (e.g. shell_command).
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds h, replacing any existing handler for the same task type.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.TaskType()] = h
}

// Get looks up the handler for taskType.
func (r *Registry) Get(taskType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[taskType]
	return h, ok
}

// Tags returns the task types currently registered, sorted is not
// guaranteed. Used by the CLI job inspector and by startup logging.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	return tags
}

// Dispatch resolves payload's task type and runs its handler. A missing
// handler is reported as an error rather than a panic, since it can arise
// at runtime from a deployment whose registry omits a handler a job
// references.
func (r *Registry) Dispatch(ctx context.Context, payload domain.TaskPayload) error {
	h, ok := r.Get(payload.TaskType())
	if !ok {
		return fmt.Errorf("task: no handler registered for task type %q", payload.TaskType())
	}
	slog.Debug("dispatching task", "task_type", payload.TaskType())
	return h.Handle(ctx, payload)
}
