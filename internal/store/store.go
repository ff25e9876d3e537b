// Package store persists domain.JobRaw rows and exposes the JobStore
// interface the engine and HTTP API depend on, independent of backend.
package store

import (
	"context"
	"errors"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// ErrNotFound is returned by Get/Update/Delete when no row matches the
// given id.
var ErrNotFound = errors.New("store: job not found")

// ErrAlreadyExists is returned by Create when a row with the given id is
// already present. The store is id-agnostic: callers supply the id and the
// store honors it verbatim rather than minting its own.
var ErrAlreadyExists = errors.New("store: job already exists")

// JobStore is the persistence boundary for jobs. Implementations must be
// safe for concurrent use from multiple goroutines (the HTTP API and every
// per-job scheduler loop all call through the same JobStore).
type JobStore interface {
	// Create inserts a new job. Returns ErrAlreadyExists if id is taken.
	Create(ctx context.Context, job domain.JobRaw) error
	// Get returns the job with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (domain.JobRaw, error)
	// List returns every persisted job.
	List(ctx context.Context) ([]domain.JobRaw, error)
	// Update replaces fields on an existing job. Returns ErrNotFound if
	// id does not exist.
	Update(ctx context.Context, job domain.JobRaw) error
	// Delete removes the job with the given id. Returns ErrNotFound if
	// it does not exist.
	Delete(ctx context.Context, id string) error
	// Close releases any underlying resources (connection pool, file
	// handle).
	Close() error
}
