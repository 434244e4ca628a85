package cmd

import (
	"fmt"
	"strings"

	"github.com/adw-dev/adw/internal/config"
	"github.com/adw-dev/adw/internal/messages"
	"github.com/adw-dev/adw/internal/ui"
	"github.com/spf13/cobra"
)

var messagePriority string

// messageCmd is the C9 writer: "a CLI command run by the human" that
// appends to a task's inbound message ledger (spec.md §4.8). The agent's
// pre-turn hook is the reader, surfacing pending entries on its next turn.
var messageCmd = &cobra.Command{
	Use:   "message <adw_id> <text>",
	Short: "Send an out-of-band message to a running task's agent",
	Long: `Append a message to agents/<adw_id>/adw_messages.jsonl. The agent's
pre-turn hook surfaces it on its next scheduled turn, exactly once.

A message containing the word "stop" (case-insensitive) is auto-promoted
to interrupt priority regardless of --priority.`,
	Example: `  adw message a1b2c3d4 "also add a changelog entry"
  adw message a1b2c3d4 "stop, the approach in the plan is wrong" --priority high`,
	Args:              cobra.ExactArgs(2),
	RunE:              runMessage,
	ValidArgsFunction: getAdwIDCompletions,
}

func init() {
	rootCmd.AddCommand(messageCmd)
	messageCmd.Flags().StringVar(&messagePriority, "priority", "normal", "Message priority: normal, high, or interrupt")
}

func runMessage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return ErrMisconfigured{Err: fmt.Errorf("loading config: %w", err)}
	}

	adwID, text := args[0], args[1]

	priority := messages.Priority(strings.ToLower(messagePriority))
	switch priority {
	case messages.PriorityNormal, messages.PriorityHigh, messages.PriorityInterrupt:
	default:
		return fmt.Errorf("invalid --priority %q: want normal, high, or interrupt", messagePriority)
	}

	ch := messages.New(cfg.Core.AgentsDir, adwID)
	msg := messages.NewMessage(text, priority)
	if err := ch.Append(msg); err != nil {
		return fmt.Errorf("appending message: %w", err)
	}

	printer := ui.New(&cfg.UI)
	printer.PrintSuccess(fmt.Sprintf("Queued %s message for %s", msg.Priority, adwID))
	return nil
}
