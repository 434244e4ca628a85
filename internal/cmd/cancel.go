package cmd

import (
	"fmt"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/finder"
	"github.com/adw-dev/adw/internal/git"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/adw-dev/adw/pkg/models"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [adw_id]",
	Short: "Cancel a running task",
	Long: `Mark a task's workflow as failed with reason "cancelled" and request
that the running daemon (if any) stop it at the next phase boundary.

Without an adw_id, an in_progress task is chosen interactively via fuzzy
finder.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runCancel,
	ValidArgsFunction: getAdwIDCompletions,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	tasks := taskfile.New(cfg.Core.TasksFile)

	adwID := ""
	if len(args) == 1 {
		adwID = args[0]
	} else {
		adwID, err = pickTaskInteractively(cfg, tasks, taskfile.StatusInProgress)
		if err != nil {
			return err
		}
	}

	task, err := tasks.FindByAdwID(adwID)
	if err != nil {
		return fmt.Errorf("finding task: %w", err)
	}

	states := state.NewStore(cfg.Core.AgentsDir)
	if err := states.RequestCancel(adwID); err != nil {
		return fmt.Errorf("requesting cancellation: %w", err)
	}

	if _, err := tasks.MarkFailed(task.Description, adwID, "cancelled"); err != nil {
		return fmt.Errorf("marking task cancelled: %w", err)
	}

	ui.New(&cfg.UI).PrintSuccess(fmt.Sprintf("Cancelled %s", adwID))
	return nil
}

// pickTaskInteractively fuzzy-selects one task in the given status from
// tasks.md, returning its adw_id. Grounded on the teacher's finder.Finder,
// generalized from branch/worktree selection to task selection.
func pickTaskInteractively(cfg *models.Config, tasks *taskfile.Store, status taskfile.Status) (string, error) {
	rows, err := loadTaskSummaries(tasks, status)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no tasks with status %q", status)
	}

	g, err := git.NewFromCwd()
	if err != nil {
		return "", fmt.Errorf("initializing git: %w", err)
	}
	f := finder.NewWithUI(g, &cfg.Finder, &cfg.UI)

	selected, err := f.SelectTask(rows)
	if err != nil {
		return "", fmt.Errorf("task selection cancelled")
	}
	return selected.AdwID, nil
}
