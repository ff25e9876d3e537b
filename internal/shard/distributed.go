package shard

import (
	"context"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

// Distributed owns only the jobs whose hash mod TotalShards equals
// ShardID, letting N processes split ownership of a job table without
// coordination beyond agreeing on TotalShards.
type Distributed struct {
	ShardID     int
	TotalShards int
}

// NewDistributed constructs a Distributed manager. Panics on an invalid
// configuration since this is a startup-time wiring error, not a runtime
// one.
func NewDistributed(shardID, totalShards int) *Distributed {
	if totalShards <= 0 {
		panic("shard: total_shards must be positive")
	}
	if shardID < 0 || shardID >= totalShards {
		panic("shard: shard_id out of range [0, total_shards)")
	}
	return &Distributed{ShardID: shardID, TotalShards: totalShards}
}

func (d *Distributed) AssignShard(jobID string) int {
	return int(StableHash(jobID) % uint64(d.TotalShards))
}

func (d *Distributed) LocalJobs(ctx context.Context, allJobs []domain.Job) []domain.Job {
	local := make([]domain.Job, 0, len(allJobs))
	for _, job := range allJobs {
		if d.AssignShard(job.ID) == d.ShardID {
			local = append(local, job)
		}
	}
	return local
}
