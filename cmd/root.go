package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the goclaw-scheduler CLI: serve runs the engine
// and HTTP control plane; job is a local inspector against the configured
// store.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "goclaw-scheduler",
		Short:        "Persistent, shardable cron job scheduler",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("config", "", "path to an optional goclaw-scheduler.yaml config file")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newJobCommand())

	return cmd
}
