// Package shard assigns jobs to owning processes so a scheduler deployment
// can be run as more than one replica without two replicas firing the same
// job.
package shard

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// Manager decides which jobs the current process owns.
type Manager interface {
	// AssignShard returns the shard index a job id hashes to.
	AssignShard(jobID string) int
	// LocalJobs filters allJobs down to the ones this process owns.
	LocalJobs(ctx context.Context, allJobs []domain.Job) []domain.Job
}

// StableHash hashes a job id to a non-negative int using xxhash, the same
// hash family the reference implementation uses for its stable variant.
// xxhash is chosen over FNV/DefaultHasher because it is explicitly portable
// across processes and versions, which stable sharding depends on.
func StableHash(jobID string) uint64 {
	return xxhash.Sum64String(jobID)
}
