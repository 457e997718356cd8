package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/mutker/mysqlstatus/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "mysqlstatus: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mysqlstatus [flags]",
		Short: "Live status monitor for a MySQL server",
		Long: `mysqlstatus samples a MySQL server at a fixed interval and shows the result.

Modes:
    status   selected SHOW GLOBAL STATUS counters plus QPS and buffer hit ratio
    process  the process list, longest running first
    global   server wide health: memory, sessions, locks, sizes, replication

Output goes to an interactive terminal view by default, to a file or stdout
with --nonint, or to an Elasticsearch cluster with --export-config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())

	return cmd
}
