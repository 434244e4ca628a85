package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/adw-dev/adw/internal/config"
	"github.com/spf13/cobra"
)

var (
	runOnce          bool
	runPollInterval  string
	runMaxConcurrent int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the cron daemon",
	Long: `Start the supervisor loop: poll tasks.md for eligible tasks, dispatch
up to max_concurrent workflows in their own worktrees and ports, and reap
completions until interrupted.`,
	Example: `  # Run until Ctrl-C
  adw run

  # Run a single pass and exit (useful for cron(1) instead of a daemon)
  adw run --once`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single tick and exit instead of looping")
	runCmd.Flags().StringVar(&runPollInterval, "poll-interval", "", "Override daemon.poll_interval (e.g. 10s)")
	runCmd.Flags().IntVar(&runMaxConcurrent, "max-concurrent", 0, "Override daemon.max_concurrent")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	if runPollInterval != "" {
		d, err := time.ParseDuration(runPollInterval)
		if err != nil {
			return ErrMisconfigured{Err: fmt.Errorf("parsing --poll-interval: %w", err)}
		}
		cfg.Daemon.PollInterval = d
	}
	if runMaxConcurrent > 0 {
		cfg.Daemon.MaxConcurrent = runMaxConcurrent
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	if runOnce {
		if err := eng.daemon.Reconcile(); err != nil {
			return fmt.Errorf("reconciling orphaned tasks: %w", err)
		}
		eng.daemon.Tick(cmd.Context())
		return nil
	}

	// Daemon.Run installs its own SIGINT/SIGTERM handling (pkg/system); this
	// context only needs to carry cancellation from the command framework.
	if err := eng.daemon.Run(cmd.Context()); err != nil && err != context.Canceled {
		return fmt.Errorf("daemon exited: %w", err)
	}
	return nil
}
