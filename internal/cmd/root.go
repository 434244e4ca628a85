// Package cmd provides CLI commands for the adw application.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/adw-dev/adw/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "adw",
	Short: "Autonomous developer workflow engine",
	Long: `adw drives a tasks.md file full of plain-English task descriptions
through an agent CLI, one git worktree and one workflow at a time.

Add a task, let the daemon pick it up, and it runs plan -> implement ->
test -> review in an isolated worktree with its own allocated ports,
escalating to a written report only when every retry has been spent.`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// ErrMisconfigured wraps an error surfaced before any domain work ran (a bad
// flag value, an unreadable config key) so Execute can report exit code 2
// rather than the default 1 used for domain failures.
type ErrMisconfigured struct{ Err error }

func (e ErrMisconfigured) Error() string { return e.Err.Error() }
func (e ErrMisconfigured) Unwrap() error { return e.Err }

// exitCodeFor maps a command error to the process exit code: 0 is handled by
// cobra before Execute sees an error at all, so here it's 1 (domain errors)
// unless the command explicitly flagged misconfiguration.
func exitCodeFor(err error) int {
	var misconfigured ErrMisconfigured
	if errors.As(err, &misconfigured) {
		return 2
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.CompletionOptions.DisableDefaultCmd = false
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(2)
	}
}

// getVersionString returns a formatted version string using build info
func getVersionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}

	// Extract version information from build info
	buildVersion := version
	buildCommit := commit
	buildDate := date

	// Try to get version from module
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		buildVersion = info.Main.Version
	}

	// Try to get commit and date from VCS settings
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if setting.Value != "" {
				buildCommit = setting.Value
				if len(buildCommit) > 7 {
					buildCommit = buildCommit[:7]
				}
			}
		case "vcs.time":
			if setting.Value != "" {
				buildDate = setting.Value
			}
		}
	}

	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}
