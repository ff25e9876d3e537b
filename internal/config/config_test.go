package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ShardMode != ShardModeLocal {
		t.Fatalf("ShardMode = %q, want local", cfg.ShardMode)
	}
	if cfg.TotalShards != 1 {
		t.Fatalf("TotalShards = %d, want 1", cfg.TotalShards)
	}
	if cfg.DatabaseURL != "sqlite://jobs.db" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadDistributedRequiresShardID(t *testing.T) {
	t.Setenv("SHARD_MODE", "distributed")
	t.Setenv("TOTAL_SHARDS", "4")
	t.Setenv("SHARD_ID", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error when SHARD_ID is missing in distributed mode")
	}
}

func TestLoadDistributedValid(t *testing.T) {
	t.Setenv("SHARD_MODE", "distributed")
	t.Setenv("TOTAL_SHARDS", "4")
	t.Setenv("SHARD_ID", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ShardID != 2 || cfg.TotalShards != 4 {
		t.Fatalf("got shard_id=%d total_shards=%d", cfg.ShardID, cfg.TotalShards)
	}
}

func TestLoadRejectsShardIDOutOfRange(t *testing.T) {
	t.Setenv("SHARD_MODE", "distributed")
	t.Setenv("TOTAL_SHARDS", "2")
	t.Setenv("SHARD_ID", "5")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for shard_id >= total_shards")
	}
}

func TestLoadRejectsInvalidShardMode(t *testing.T) {
	t.Setenv("SHARD_MODE", "bogus")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid SHARD_MODE")
	}
}
