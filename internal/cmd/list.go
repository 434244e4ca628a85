package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/table"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/adw-dev/adw/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listJSON   bool
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Display tasks from tasks.md",
	Long: `Display every task across every worktree section, in file order,
annotated with its lifecycle status and assigned adw_id.`,
	Example: `  # All tasks
  adw list

  # Only what's currently running
  adw list --status in_progress

  # JSON for scripting
  adw list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status: pending, blocked, in_progress, done, failed")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	if listStatus != "" && !validStatus(listStatus) {
		return ErrMisconfigured{Err: fmt.Errorf("unknown --status %q", listStatus)}
	}

	tasks := taskfile.New(cfg.Core.TasksFile)
	rows, err := loadTaskSummaries(tasks, taskfile.Status(listStatus))
	if err != nil {
		return err
	}

	if listJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	printer := ui.New(&cfg.UI)
	if len(rows) == 0 {
		printer.PrintInfo("No tasks found")
		return nil
	}

	t := table.New()
	t.Headers("WORKTREE", "STATUS", "ADW_ID", "DESCRIPTION", "TAGS")
	for _, row := range rows {
		t.Row(row.Worktree, row.Status, shortOrDash(row.AdwID), row.Description, strings.Join(row.Tags, ","))
	}
	return t.Print()
}

// loadTaskSummaries loads tasks.md (treating "file not found" as empty,
// since a fresh repo has no tasks yet) and flattens every section into
// models.TaskSummary, optionally filtered to one status.
func loadTaskSummaries(tasks *taskfile.Store, filter taskfile.Status) ([]models.TaskSummary, error) {
	sections, err := tasks.Load()
	if err != nil {
		if err == taskfile.ErrTaskFileNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	var rows []models.TaskSummary
	for _, section := range sections {
		for _, t := range section.Tasks {
			if filter != "" && t.Status != filter {
				continue
			}
			rows = append(rows, models.TaskSummary{
				Worktree:     section.Name,
				Status:       string(t.Status),
				AdwID:        t.AdwID,
				Description:  t.Description,
				Tags:         t.Tags,
				CommitHash:   t.CommitHash,
				ErrorMessage: t.ErrorMessage,
			})
		}
	}
	return rows, nil
}

func validStatus(s string) bool {
	switch taskfile.Status(s) {
	case taskfile.StatusPending, taskfile.StatusBlocked, taskfile.StatusInProgress, taskfile.StatusDone, taskfile.StatusFailed:
		return true
	default:
		return false
	}
}

func shortOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
