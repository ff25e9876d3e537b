package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/config"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
)

// newJobCommand builds the local job inspector: talks directly to the
// configured JobStore (and, for handlers/run, the task registry), bypassing
// the HTTP control plane entirely. Convenience for an operator on the same
// box as the store, not a second API.
func newJobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect jobs in the configured store",
	}
	cmd.AddCommand(newJobLsCommand())
	cmd.AddCommand(newJobGetCommand())
	cmd.AddCommand(newJobRmCommand())
	cmd.AddCommand(newJobRunCommand())
	cmd.AddCommand(newJobToggleCommand())
	cmd.AddCommand(newJobHandlersCommand())
	return cmd
}

func openConfiguredStore(cmd *cobra.Command) (store.JobStore, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return store.Open(cfg.DatabaseURL)
}

func newJobLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfiguredStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			jobs, err := s.List(context.Background())
			if err != nil {
				return fmt.Errorf("listing jobs: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCRON\tTASK_TYPE\tSTATUS\tLAST_RUN")
			for _, j := range jobs {
				lastRun := "-"
				if j.LastRun != nil {
					lastRun = j.LastRun.Format("2006-01-02T15:04:05Z")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Name, j.Cron, j.TaskType, j.Status, lastRun)
			}
			return w.Flush()
		},
	}
}

func newJobGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [job-id]",
		Short: "Show one job in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfiguredStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			job, err := s.Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("getting job %s: %w", args[0], err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintf(w, "id\t%s\n", job.ID)
			fmt.Fprintf(w, "name\t%s\n", job.Name)
			fmt.Fprintf(w, "cron\t%s\n", job.Cron)
			fmt.Fprintf(w, "task_type\t%s\n", job.TaskType)
			fmt.Fprintf(w, "payload\t%s\n", job.Payload)
			fmt.Fprintf(w, "status\t%s\n", job.Status)
			fmt.Fprintf(w, "message\t%s\n", job.Message)
			lastRun := "-"
			if job.LastRun != nil {
				lastRun = job.LastRun.Format("2006-01-02T15:04:05Z")
			}
			fmt.Fprintf(w, "last_run\t%s\n", lastRun)
			return w.Flush()
		},
	}
}

func newJobRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [job-id]",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfiguredStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("deleting job %s: %w", args[0], err)
			}
			fmt.Printf("deleted job %s\n", args[0])
			return nil
		},
	}
}

// newJobRunCommand dispatches a job's payload through the task registry
// exactly once, outside the scheduler loop, and reports the result. Does not
// touch the job's persisted status or last_run: this is an operator probe,
// not a scheduled fire.
func newJobRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [job-id]",
		Short: "Run a job's task once, outside the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			s, err := store.Open(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("opening job store: %w", err)
			}
			defer s.Close()

			raw, err := s.Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("getting job %s: %w", args[0], err)
			}

			job, err := raw.Lift()
			if err != nil {
				return fmt.Errorf("lifting job %s: %w", args[0], err)
			}

			ctx := context.Background()
			registry := buildRegistry(ctx, cfg)
			if err := registry.Dispatch(ctx, job.Task); err != nil {
				return fmt.Errorf("job %s failed: %w", args[0], err)
			}
			fmt.Printf("job %s ran successfully\n", args[0])
			return nil
		},
	}
}

func newJobToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [job-id] [true|false]",
		Short: "Enable or disable a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openConfiguredStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			job, err := s.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("getting job %s: %w", args[0], err)
			}

			enabled := args[1] == "true" || args[1] == "1" || args[1] == "on"
			if enabled {
				job.Status = domain.StatusScheduled
			} else {
				job.Status = domain.StatusDisabled
			}

			if err := s.Update(ctx, job); err != nil {
				return fmt.Errorf("updating job %s: %w", args[0], err)
			}
			fmt.Printf("job %s status=%s\n", args[0], job.Status)
			return nil
		},
	}
}

// newJobHandlersCommand is the print_all_handlers-equivalent diagnostic:
// lists every task_type the configured deployment would register at serve
// time, without starting the engine or binding the HTTP port.
func newJobHandlersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List registered task handler types",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			registry := buildRegistry(context.Background(), cfg)
			tags := registry.Tags()
			sort.Strings(tags)
			for _, tag := range tags {
				fmt.Println(tag)
			}
			return nil
		},
	}
}
