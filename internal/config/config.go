// Package config loads process configuration from environment variables,
// with an optional YAML file for settings that don't belong in env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ShardMode selects between a single-process and a multi-process
// deployment.
type ShardMode string

const (
	ShardModeLocal       ShardMode = "local"
	ShardModeDistributed ShardMode = "distributed"
)

// Config is the fully-resolved process configuration: spec.md §6.4's env
// vars plus the additive handler tunables from the optional YAML file.
type Config struct {
	ShardMode        ShardMode
	ShardID          int
	TotalShards      int
	DatabaseURL      string
	TickIntervalSecs int

	HTTP     HTTPConfig     `yaml:"http"`
	Handlers HandlersConfig `yaml:"handlers"`
}

// HTTPConfig configures the control-plane HTTP server. Not part of spec.md
// §6.4 (which never mandates an HTTP bind address). The bind address and
// timeouts come from YAML, with HTTP_ADDR overriding the bind address; the
// auth token is never read from YAML and comes only from AUTH_TOKEN.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	AuthToken    string        `yaml:"-"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// HandlersConfig holds task-handler tunables that don't fit a process env
// var: polling cadences and default regions for the remote-execution
// handlers. These values are loaded but not passed to the handlers: the
// ADF and Step Functions handlers poll at their own fixed 3s intervals, and
// the Step Functions handler takes its region from the AWS default config
// chain.
type HandlersConfig struct {
	ADFPollIntervalSecs    int    `yaml:"adf_poll_interval_secs"`
	StepFnPollIntervalSecs int    `yaml:"stepfn_poll_interval_secs"`
	DefaultAWSRegion       string `yaml:"default_aws_region"`
}

func defaults() Config {
	return Config{
		ShardMode:        ShardModeLocal,
		ShardID:          0,
		TotalShards:      1,
		DatabaseURL:      "sqlite://jobs.db",
		TickIntervalSecs: 1,
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Handlers: HandlersConfig{
			ADFPollIntervalSecs:    3,
			StepFnPollIntervalSecs: 3,
			DefaultAWSRegion:       "us-east-1",
		},
	}
}

// Load resolves configuration: defaults, then an optional YAML file at
// yamlPath (if it exists), then environment variables, env vars taking
// precedence over file values where both apply.
func Load(yamlPath string) (Config, error) {
	cfg := defaults()

	if yamlPath != "" {
		if err := loadYAML(yamlPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("SHARD_MODE"); v != "" {
		mode := ShardMode(v)
		if mode != ShardModeLocal && mode != ShardModeDistributed {
			return Config{}, fmt.Errorf("config: invalid SHARD_MODE %q", v)
		}
		cfg.ShardMode = mode
	}

	if v := os.Getenv("TOTAL_SHARDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: invalid TOTAL_SHARDS %q", v)
		}
		cfg.TotalShards = n
	}

	if v := os.Getenv("SHARD_ID"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("config: invalid SHARD_ID %q", v)
		}
		cfg.ShardID = n
	} else if cfg.ShardMode == ShardModeDistributed {
		return Config{}, fmt.Errorf("config: SHARD_ID is required when SHARD_MODE=distributed")
	}

	if cfg.ShardMode == ShardModeDistributed && cfg.ShardID >= cfg.TotalShards {
		return Config{}, fmt.Errorf("config: SHARD_ID (%d) must be < TOTAL_SHARDS (%d)", cfg.ShardID, cfg.TotalShards)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if v := os.Getenv("TICK_INTERVAL_SECS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: invalid TICK_INTERVAL_SECS %q", v)
		}
		cfg.TickIntervalSecs = n
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("AUTH_TOKEN"); v != "" {
		cfg.HTTP.AuthToken = v
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}
