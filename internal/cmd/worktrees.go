package cmd

import (
	"fmt"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/git"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/adw-dev/adw/internal/worktree"
	"github.com/spf13/cobra"
)

var (
	worktreesVerbose bool
	worktreesJSON    bool
)

var worktreesCmd = &cobra.Command{
	Use:   "worktrees",
	Short: "List the git worktrees the daemon has created",
	Long: `List every git worktree of the repository, including the main
worktree; the daemon's own worktrees live under worktree.basedir. Each
in-progress task owns exactly one of these for the duration of its
workflow. A failed task's worktree is removed only when
worktree.remove_on_failure is set; a done task's worktree is kept.`,
	RunE: runWorktrees,
}

func init() {
	worktreesCmd.Flags().BoolVarP(&worktreesVerbose, "verbose", "v", false, "show commit and creation time")
	worktreesCmd.Flags().BoolVar(&worktreesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(worktreesCmd)
}

func runWorktrees(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	g, err := git.NewFromCwd()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("initializing git: %w", err)}
	}
	wt := worktree.New(g, cfg)

	worktrees, err := wt.List()
	if err != nil {
		return fmt.Errorf("listing worktrees: %w", err)
	}

	printer := ui.New(&cfg.UI)
	if worktreesJSON {
		return printer.PrintWorktreesJSON(worktrees)
	}
	printer.PrintWorktrees(worktrees, worktreesVerbose)
	return nil
}
