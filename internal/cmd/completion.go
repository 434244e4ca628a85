package cmd

import (
	"fmt"
	"strings"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/spf13/cobra"
)

// getAdwIDCompletions returns adw_ids for shell completion on
// `cancel`/`retry`/`message`.
func getAdwIDCompletions(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	tasks := taskfile.New(cfg.Core.TasksFile)
	sections, err := tasks.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, section := range sections {
		for _, t := range section.Tasks {
			if t.AdwID == "" || !strings.HasPrefix(t.AdwID, toComplete) {
				continue
			}
			completions = append(completions, fmt.Sprintf("%s\t%s (%s)", t.AdwID, t.Description, t.Status))
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// getConfigKeyCompletions returns config key names for shell completion
func getConfigKeyCompletions(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	keys := []struct {
		name string
		desc string
	}{
		{"core.tasks_file", "Path to the canonical task file"},
		{"core.agents_dir", "Root of per-task agents/<adw_id>/ directories"},
		{"daemon.poll_interval", "Sleep between daemon polls"},
		{"daemon.max_concurrent", "Live child ceiling"},
		{"daemon.auto_start", "Dispatch new tasks automatically each pass"},
		{"workflow.default_complexity", "Workflow complexity used when no rule matches"},
		{"workflow.max_retries", "Per-phase retry ceiling"},
		{"workflow.max_test_retries", "implement<->test retry ceiling"},
		{"agent.executable", "External agent CLI binary name/path"},
		{"agent.default_model", "opus, sonnet, or haiku"},
		{"ports.range_start", "Lowest port in the allocator's pool"},
		{"ports.range_end", "Highest port in the allocator's pool"},
		{"worktree.basedir", "Base directory for creating worktrees"},
		{"worktree.default_base_branch", "Branch new worktrees are created off of"},
		{"ui.color", "Enable colored output"},
		{"ui.icons", "Enable icon display"},
	}

	var completions []string
	for _, key := range keys {
		if strings.HasPrefix(key.name, toComplete) {
			completions = append(completions, fmt.Sprintf("%s\t%s", key.name, key.desc))
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
