package shard

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
)

func jobWithID(id string) domain.Job {
	return domain.Job{ID: id, Task: domain.PrintTask{Message: "x"}, Status: domain.StatusScheduled}
}

func TestStableHashIsDeterministic(t *testing.T) {
	if StableHash("job-1") != StableHash("job-1") {
		t.Fatal("StableHash is not deterministic")
	}
}

func TestLocalOwnsEverything(t *testing.T) {
	l := NewLocal(4)
	jobs := []domain.Job{jobWithID("a"), jobWithID("b"), jobWithID("c")}
	got := l.LocalJobs(context.Background(), jobs)
	if len(got) != len(jobs) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(jobs))
	}
}

func TestDistributedPartitionsDisjointly(t *testing.T) {
	const total = 4
	jobs := make([]domain.Job, 0, 100)
	for i := 0; i < 100; i++ {
		jobs = append(jobs, jobWithID(string(rune('a'+i%26))+string(rune('A'+i))))
	}

	seen := make(map[string]int)
	for shardID := 0; shardID < total; shardID++ {
		d := NewDistributed(shardID, total)
		for _, j := range d.LocalJobs(context.Background(), jobs) {
			seen[j.ID]++
		}
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("job %s owned by %d shards, want exactly 1", id, count)
		}
	}
	if len(seen) != len(jobs) {
		t.Fatalf("covered %d of %d jobs", len(seen), len(jobs))
	}
}

func TestDistributedAssignShardConsistentWithLocalJobs(t *testing.T) {
	d := NewDistributed(2, 5)
	jobs := []domain.Job{jobWithID("x"), jobWithID("y"), jobWithID("z")}
	local := d.LocalJobs(context.Background(), jobs)
	for _, j := range local {
		if d.AssignShard(j.ID) != d.ShardID {
			t.Fatalf("job %s returned by LocalJobs but AssignShard disagrees", j.ID)
		}
	}
}

func TestNewDistributedPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for shard_id out of range")
		}
	}()
	NewDistributed(5, 5)
}
