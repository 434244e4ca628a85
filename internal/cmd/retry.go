package cmd

import (
	"fmt"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry [adw_id]",
	Short: "Reset a failed task back to pending",
	Long: `Clear a failed task's adw_id, commit hash, and error message and
transition it back to pending so the daemon picks it up again on its next
eligibility pass. The only allowed failed->pending transition.

Without an adw_id, a failed task is chosen interactively via fuzzy finder.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runRetry,
	ValidArgsFunction: getAdwIDCompletions,
}

func init() {
	rootCmd.AddCommand(retryCmd)
}

func runRetry(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	tasks := taskfile.New(cfg.Core.TasksFile)

	adwID := ""
	if len(args) == 1 {
		adwID = args[0]
	} else {
		adwID, err = pickTaskInteractively(cfg, tasks, taskfile.StatusFailed)
		if err != nil {
			return err
		}
	}

	task, err := tasks.FindByAdwID(adwID)
	if err != nil {
		return fmt.Errorf("finding task: %w", err)
	}
	if task.Status != taskfile.StatusFailed {
		return fmt.Errorf("task %s is %q, not failed", adwID, task.Status)
	}

	if _, err := tasks.Reset(task.Description, adwID); err != nil {
		return fmt.Errorf("resetting task: %w", err)
	}

	ui.New(&cfg.UI).PrintSuccess(fmt.Sprintf("Reset %s to pending", adwID))
	return nil
}
