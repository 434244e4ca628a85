package cmd

import (
	"fmt"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/table"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Inspect the daemon's live workers",
}

var workerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every in_progress task's current phase",
	Long: `For each task currently in_progress, load its persisted ADWState
and report the workflow type, current phase, and how many phases have
completed so far. This reads the disk state written by the daemon (a
separate "adw run" process) rather than querying it directly.`,
	RunE: runWorkerStatus,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerStatusCmd)
}

func runWorkerStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	tasks := taskfile.New(cfg.Core.TasksFile)
	rows, err := loadTaskSummaries(tasks, taskfile.StatusInProgress)
	if err != nil {
		return err
	}

	printer := ui.New(&cfg.UI)
	if len(rows) == 0 {
		printer.PrintInfo("No workers in progress")
		return nil
	}

	states := state.NewStore(cfg.Core.AgentsDir)
	t := table.New()
	t.Headers("ADW_ID", "WORKTREE", "PHASE", "PHASES DONE", "DESCRIPTION")
	for _, row := range rows {
		phase, done := "unknown", "-"
		if st, err := states.Load(row.AdwID); err == nil {
			phase = st.CurrentPhase
			done = fmt.Sprintf("%d", len(st.PhasesCompleted))
		}
		t.Row(row.AdwID, row.Worktree, phase, done, row.Description)
	}
	return t.Print()
}
