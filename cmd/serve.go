package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/config"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/engine"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/httpapi"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/schedule"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/shard"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/task"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/telemetry"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler engine and HTTP control plane",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runServe(cmd.Context(), configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "goclaw-scheduler")
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer shutdownTracing(context.Background())

	jobStore, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening job store: %w", err)
	}
	defer jobStore.Close()

	shardMgr, err := buildShardManager(cfg)
	if err != nil {
		return err
	}

	registry := buildRegistry(ctx, cfg)
	slog.Info("registered task handlers", "types", registry.Tags())

	eng := engine.New(jobStore, shardMgr, registry)

	httpHandler := httpapi.NewHandler(jobStore, eng, schedule.New(), cfg.HTTP.AuthToken)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpHandler.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http control plane listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("engine stopped with error", "error", err)
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.WriteTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func buildShardManager(cfg config.Config) (shard.Manager, error) {
	switch cfg.ShardMode {
	case config.ShardModeLocal:
		return shard.NewLocal(cfg.TotalShards), nil
	case config.ShardModeDistributed:
		return shard.NewDistributed(cfg.ShardID, cfg.TotalShards), nil
	default:
		return nil, fmt.Errorf("unsupported shard mode %q", cfg.ShardMode)
	}
}

func buildRegistry(ctx context.Context, cfg config.Config) *task.Registry {
	registry := task.NewRegistry()
	registry.Register(task.PrintHandler{})
	registry.Register(task.ShellHandler{})
	registry.Register(task.NewADFHandler(nil))

	stepFn, err := task.NewStepFnHandler(ctx)
	if err != nil {
		slog.Warn("aws_stepfn handler unavailable: failed to load aws config", "error", err)
	} else {
		registry.Register(stepFn)
	}

	return registry
}
