package shard

import (
	"context"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// Local owns every job handed to it. It is the manager used for a
// single-process deployment, or for local development.
type Local struct {
	ShardCount int
}

// NewLocal constructs a Local manager. ShardCount only affects AssignShard's
// return value (useful for testing hash distribution); LocalJobs always
// returns every job unfiltered.
func NewLocal(shardCount int) *Local {
	if shardCount <= 0 {
		shardCount = 10
	}
	return &Local{ShardCount: shardCount}
}

func (l *Local) AssignShard(jobID string) int {
	return int(StableHash(jobID) % uint64(l.ShardCount))
}

func (l *Local) LocalJobs(_ context.Context, allJobs []domain.Job) []domain.Job {
	return allJobs
}
