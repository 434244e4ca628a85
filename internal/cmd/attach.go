package cmd

import (
	"fmt"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/finder"
	"github.com/adw-dev/adw/internal/git"
	"github.com/adw-dev/adw/internal/tmux"
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach [adw_id]",
	Short: "Attach to a running task's live output via tmux",
	Long: `Find the tmux session tailing the given task's current phase output
and attach to it interactively. Requires tmux.enabled in configuration; the
session is read-only (it runs "tail -f" against the persisted stream), so
keystrokes sent in the attached pane do not reach the agent process.

Without an adw_id, pick one of the currently live sessions via fuzzy finder.

Detach with the usual tmux prefix + d.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runAttach,
	ValidArgsFunction: getAdwIDCompletions,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}
	if !cfg.Tmux.Enabled {
		return ErrMisconfigured{Err: fmt.Errorf("tmux.enabled is false; enable it to get attachable sessions")}
	}

	manager := tmux.NewSessionManager(&tmux.SessionConfig{
		Enabled:      cfg.Tmux.Enabled,
		TmuxCommand:  cfg.Tmux.TmuxCommand,
		HistoryLimit: cfg.Tmux.HistoryLimit,
	}, cfg.Core.AgentsDir)

	if len(args) == 1 {
		session, err := manager.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("no live tmux session for %s: %w", args[0], err)
		}
		return manager.AttachSessionDirect(session)
	}

	sessions, err := manager.ListSessions()
	if err != nil {
		return fmt.Errorf("listing tmux sessions: %w", err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no live tmux sessions")
	}

	g, err := git.NewFromCwd()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("initializing git: %w", err)}
	}
	f := finder.NewWithUI(g, &cfg.Finder, &cfg.UI)
	session, err := f.SelectSession(sessions)
	if err != nil {
		return fmt.Errorf("session selection cancelled")
	}

	return manager.AttachSessionDirect(session)
}
