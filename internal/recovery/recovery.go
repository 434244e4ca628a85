// Package recovery implements retry/recovery classification (C10): given a
// phase failure it decides whether the failure is retriable, fixable, or
// fatal, picks a retry strategy, and — on terminal failure — renders an
// escalation.md report. Grounded on the exit-code/JSON error classification
// in internal/claude/claude_code_executor.go, generalized from a single
// Claude Code invocation's error surface to the workflow runner's
// attempt-by-attempt retry loop.
package recovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/adw-dev/adw/internal/agent"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/pkg/result"
	"gopkg.in/yaml.v3"
)

// Class is the failure classification, per spec.md §4.9.
type Class string

const (
	ClassRetriable Class = "retriable"
	ClassFixable   Class = "fixable"
	ClassFatal     Class = "fatal"
)

// Strategy is the retry approach chosen for the next attempt.
type Strategy string

const (
	StrategySameApproach Strategy = "same_approach"
	StrategyAlternative  Strategy = "alternative"
	StrategySimplify     Strategy = "simplify"
)

var fatalPhrases = []string{
	"permission denied",
	"invariant violation",
	"internal invariant",
}

var fixablePhrases = []string{
	"undefined:",
	"cannot find package",
	"no required module provides",
	"type mismatch",
	"assertion failed",
	"syntax error",
	"missing import",
}

// Classify decides whether a phase failure is retriable, fixable, or fatal.
// retryCode is C5's classification for the underlying agent invocation (when
// the failure is an agent error); errText is the failure's error text,
// inspected for known fixable/fatal patterns.
func Classify(retryCode agent.RetryCode, errText string) result.Result[Class] {
	lower := strings.ToLower(errText)

	for _, phrase := range fatalPhrases {
		if strings.Contains(lower, phrase) {
			return result.Ok(ClassFatal)
		}
	}

	switch retryCode {
	case agent.RetryTimeoutError, agent.RetryRateLimit:
		return result.Ok(ClassRetriable)
	case agent.RetryExecutionError:
		for _, phrase := range fixablePhrases {
			if strings.Contains(lower, phrase) {
				return result.Ok(ClassFixable)
			}
		}
		return result.Ok(ClassRetriable)
	case agent.RetryClaudeCodeError:
		for _, phrase := range fixablePhrases {
			if strings.Contains(lower, phrase) {
				return result.Ok(ClassFixable)
			}
		}
		return result.Ok(ClassFatal)
	case agent.RetryNone:
		return result.Err[Class](fmt.Errorf("cannot classify a non-failure (retry_code = none)"))
	default:
		return result.Ok(ClassRetriable)
	}
}

// StrategyFor picks the retry strategy for the given attempt number (0-based:
// attempt 0 is the first retry after the original invocation), per spec.md
// §4.9's same_approach/alternative/simplify progression.
func StrategyFor(attempt int) Strategy {
	switch {
	case attempt <= 0:
		return StrategySameApproach
	case attempt == 1:
		return StrategyAlternative
	default:
		return StrategySimplify
	}
}

const maxTraceLines = 20

// TruncateTrace keeps the head and tail of a stack trace, eliding the middle
// beyond maxTraceLines total lines (head + tail), per spec.md §4.9.
func TruncateTrace(trace string) string {
	lines := strings.Split(strings.TrimRight(trace, "\n"), "\n")
	if len(lines) <= maxTraceLines {
		return trace
	}
	half := maxTraceLines / 2
	head := lines[:half]
	tail := lines[len(lines)-half:]
	elided := len(lines) - len(head) - len(tail)
	out := append([]string{}, head...)
	out = append(out, fmt.Sprintf("... (%d lines elided) ...", elided))
	out = append(out, tail...)
	return strings.Join(out, "\n")
}

// RetryContext builds the block appended to a re-invoked phase's prompt,
// carrying the prior failure's error text and truncated trace forward.
func RetryContext(strategy Strategy, errText, trace string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n## Retry context (%s)\n\n", strategy)
	fmt.Fprintf(&b, "The previous attempt failed with:\n\n```\n%s\n```\n", strings.TrimSpace(errText))
	if trace != "" {
		fmt.Fprintf(&b, "\nTrace:\n\n```\n%s\n```\n", TruncateTrace(trace))
	}
	switch strategy {
	case StrategyAlternative:
		b.WriteString("\nTry a different design for this change rather than repeating the same approach.\n")
	case StrategySimplify:
		b.WriteString("\nThis is the final attempt: make the smallest viable change that satisfies the task.\n")
	}
	return b.String()
}

// Suggestion returns a heuristic fix hint for an escalation report, per
// spec.md §4.9's examples.
func Suggestion(retryCode agent.RetryCode, errText string) string {
	lower := strings.ToLower(errText)
	switch {
	case retryCode == agent.RetryTimeoutError:
		return "timeout: chunk the work into smaller phases"
	case strings.Contains(lower, "permission denied"):
		return "permission denied: check the sandbox/filesystem permissions for the worktree"
	case strings.Contains(lower, "cannot find package") || strings.Contains(lower, "undefined:"):
		return "import/reference error: verify dependencies are declared and vendored"
	case retryCode == agent.RetryRateLimit:
		return "rate limit: increase the retry delay or lower concurrency"
	default:
		return "inspect the phase's cc_raw_output.jsonl for the agent's own diagnosis"
	}
}

// Attempt is one recorded retry attempt for the escalation report.
type Attempt struct {
	Phase      string
	Strategy   Strategy
	Class      Class
	Error      string
	Suggestion string
}

// front is the escalation report's YAML front-matter.
type front struct {
	AdwID           string    `yaml:"adw_id"`
	TaskDescription string    `yaml:"task_description"`
	WorkflowType    string    `yaml:"workflow_type"`
	FailedPhase     string    `yaml:"failed_phase"`
	GeneratedAt     time.Time `yaml:"generated_at"`
}

// Escalation renders the escalation.md report for a terminally-failed task,
// per spec.md §4.9: "enumerating each attempt, the strategy used, modified
// files, and heuristic suggestions".
func Escalation(st *state.ADWState, failedPhase string, attempts []Attempt, modifiedFiles []string, generatedAt time.Time) (string, error) {
	fm, err := yaml.Marshal(front{
		AdwID:           st.AdwID,
		TaskDescription: st.TaskDescription,
		WorkflowType:    st.WorkflowType,
		FailedPhase:     failedPhase,
		GeneratedAt:     generatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling escalation front-matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# Escalation: %s\n\n", st.TaskDescription)
	fmt.Fprintf(&b, "Task `%s` failed terminally in phase `%s` after %d attempt(s).\n\n", st.AdwID, failedPhase, len(attempts))

	b.WriteString("## Attempts\n\n")
	for i, a := range attempts {
		fmt.Fprintf(&b, "%d. **%s** (strategy: `%s`, class: `%s`)\n", i+1, a.Phase, a.Strategy, a.Class)
		fmt.Fprintf(&b, "   - Error: %s\n", strings.TrimSpace(a.Error))
		if a.Suggestion != "" {
			fmt.Fprintf(&b, "   - Suggestion: %s\n", a.Suggestion)
		}
	}

	b.WriteString("\n## Modified files\n\n")
	if len(modifiedFiles) == 0 {
		b.WriteString("(none recorded)\n")
	} else {
		for _, f := range modifiedFiles {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
	}

	return b.String(), nil
}
