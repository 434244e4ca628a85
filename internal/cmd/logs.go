package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/tui"
	"github.com/spf13/cobra"
)

var logsView bool

var logsCmd = &cobra.Command{
	Use:   "logs <adw_id>",
	Short: "Show a task's per-phase agent output",
	Long: `Concatenate the persisted final result of every completed phase into a
single log, one section per phase, in the style of the teacher's log
presenter. With --view, open it in a scrollable TUI instead of printing it.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runLogs,
	ValidArgsFunction: getAdwIDCompletions,
}

func init() {
	logsCmd.Flags().BoolVar(&logsView, "view", false, "open the log in a scrollable TUI")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	adwID := args[0]
	states := state.NewStore(cfg.Core.AgentsDir)
	st, err := states.Load(adwID)
	if err != nil {
		return fmt.Errorf("loading state for %s: %w", adwID, err)
	}

	tasks := taskfile.New(cfg.Core.TasksFile)
	task, err := tasks.FindByAdwID(adwID)
	taskStatus := ""
	if err == nil {
		taskStatus = string(task.Status)
	}

	content := formatPhaseLog(cfg.Core.AgentsDir, adwID, st)

	if logsView {
		return tui.RunLogViewer(st, taskStatus, content)
	}
	fmt.Print(content)
	return nil
}

// formatPhaseLog builds a section-per-phase log in the teacher's
// presenter idiom ("💬 Prompt:" style headers), one section per completed
// phase instead of one prompt/response pair.
func formatPhaseLog(agentsDir, adwID string, st *state.ADWState) string {
	var b strings.Builder
	for _, phase := range st.PhasesCompleted {
		fmt.Fprintf(&b, "⚡ Operation Flow: %s\n", phase.Phase)
		if phase.Success {
			fmt.Fprintf(&b, "📊 Summary: completed in %.1fs\n", phase.DurationSeconds)
		} else {
			fmt.Fprintf(&b, "📊 Summary: failed after %.1fs: %s\n", phase.DurationSeconds, phase.Error)
		}

		resultPath := filepath.Join(agentsDir, adwID, phase.Phase, "cc_final_result.txt")
		if data, err := os.ReadFile(resultPath); err == nil && len(data) > 0 {
			fmt.Fprintf(&b, "\n🤖 Claude's Response:\n%s\n", strings.TrimSpace(string(data)))
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return fmt.Sprintf("No completed phases recorded for %s yet.\n", adwID)
	}
	return b.String()
}
