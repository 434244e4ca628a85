// Package ui provides user interface utilities for the adw CLI.
package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/adw-dev/adw/pkg/models"
	"github.com/adw-dev/adw/pkg/utils"
)

// Printer handles output formatting.
type Printer struct {
	useColor     bool
	useIcons     bool
	useTildeHome bool
}

// New creates a new Printer instance.
func New(config *models.UIConfig) *Printer {
	return &Printer{
		useColor:     config.Color,
		useIcons:     config.Icons,
		useTildeHome: config.TildeHome,
	}
}

// PrintWorktrees displays worktrees in a formatted table.
func (p *Printer) PrintWorktrees(worktrees []models.Worktree, verbose bool) {
	if len(worktrees) == 0 {
		fmt.Println("No worktrees found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	if verbose {
		_, _ = fmt.Fprintln(w, "BRANCH\tPATH\tCOMMIT\tCREATED\tTYPE")
		for _, wt := range worktrees {
			wtType := "additional"
			if wt.IsMain {
				wtType = "main"
			}
			path := wt.Path
			if p.useTildeHome {
				path = utils.TildePath(path)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				wt.Branch,
				path,
				p.truncateHash(wt.CommitHash),
				p.formatTime(wt.CreatedAt),
				wtType,
			)
		}
	} else {
		_, _ = fmt.Fprintln(w, "BRANCH\tPATH")
		for _, wt := range worktrees {
			marker := ""
			if wt.IsMain && p.useIcons {
				marker = "● "
			}
			path := wt.Path
			if p.useTildeHome {
				path = utils.TildePath(path)
			}
			_, _ = fmt.Fprintf(w, "%s%s\t%s\n", marker, wt.Branch, path)
		}
	}
}

// PrintWorktreesJSON displays worktrees in JSON format.
func (p *Printer) PrintWorktreesJSON(worktrees []models.Worktree) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(worktrees)
}

// PrintConfig displays configuration in a formatted manner.
func (p *Printer) PrintConfig(settings map[string]any) {
	p.printConfigRecursive("", settings)
}

// PrintError displays an error message.
func (p *Printer) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintSuccess displays a success message.
func (p *Printer) PrintSuccess(message string) {
	fmt.Println(message)
}

// PrintInfo displays an informational message.
func (p *Printer) PrintInfo(message string) {
	fmt.Println(message)
}

// PrintWorktreePath prints only the worktree path (for cd command).
func (p *Printer) PrintWorktreePath(path string) {
	if p.useTildeHome {
		path = utils.TildePath(path)
	}
	fmt.Println(path)
}

// truncateHash truncates a commit hash to 8 characters.
func (p *Printer) truncateHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// formatTime formats a time value for display.
func (p *Printer) formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// printConfigRecursive recursively prints configuration values.
func (p *Printer) printConfigRecursive(prefix string, data any) {
	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			newPrefix := key
			if prefix != "" {
				newPrefix = prefix + "." + key
			}
			p.printConfigRecursive(newPrefix, value)
		}
	default:
		fmt.Printf("%s = %v\n", prefix, v)
	}
}