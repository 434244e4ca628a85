package cmd

import (
	"fmt"
	"strings"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addWorktree string
	addModel    string
	addWorkflow string
	addPriority string
	addTags     []string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task to tasks.md",
	Long: `Append a new pending task line to tasks.md under the given worktree
section, tagged with the model, workflow, and priority that should drive
its dispatch.`,
	Example: `  # Add a task to the default worktree section
  adw add "fix the off-by-one in the pagination helper"

  # Pin a model, workflow complexity, and priority
  adw add "add rate limiting to the webhook handler" --model opus --workflow sdlc --priority p1`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addWorktree, "worktree", "main", "Worktree section to add the task under")
	addCmd.Flags().StringVar(&addModel, "model", "", "Model tag: opus, sonnet, or haiku")
	addCmd.Flags().StringVar(&addWorkflow, "workflow", "", "Workflow tag: simple, standard, sdlc, bug-fix, prototype, full, or minimal")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "Priority tag: p0, p1, p2, or p3")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Additional free-form tags (repeatable)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	tags := collectTags(addModel, addWorkflow, addPriority, addTags)

	tasks := taskfile.New(cfg.Core.TasksFile)
	if err := tasks.Add(addWorktree, args[0], tags); err != nil {
		return fmt.Errorf("adding task: %w", err)
	}

	printer := ui.New(&cfg.UI)
	msg := fmt.Sprintf("Added task to worktree %q", addWorktree)
	if len(tags) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(tags, ", "))
	}
	printer.PrintSuccess(msg)
	return nil
}

func collectTags(model, workflow, priority string, extra []string) []string {
	var tags []string
	if model != "" {
		tags = append(tags, model)
	}
	if workflow != "" {
		tags = append(tags, workflow)
	}
	if priority != "" {
		tags = append(tags, priority)
	}
	tags = append(tags, extra...)
	return tags
}
