// Package workflow implements the workflow runner (C6): it maps a task to a
// sequence of agent-executor phases by complexity tier, drives test-command
// detection and test-driven retries, and records per-phase state. Grounded
// on the teacher's internal/claude/execution_engine.go phase-sequencing
// pattern and internal/claude/task_manager.go's task-classification rules.
package workflow

import (
	"strings"

	"github.com/adw-dev/adw/internal/taskfile"
)

// Complexity is a workflow tier, per spec.md §4.6.
type Complexity string

const (
	ComplexityMinimal  Complexity = "minimal"
	ComplexityStandard Complexity = "standard"
	ComplexityFull     Complexity = "full"
)

// fullKeywords and minimalKeywords drive rule 4 of SelectComplexity
// (spec.md §4.6: "keyword scan of the description").
var (
	fullKeywords = []string{"critical", "security", "architecture", "refactor", "performance", "database"}
	minimalKeywords = []string{"typo", "docs", "comment", "chore", "unused", "minor"}
)

// SelectComplexity picks a task's workflow tier via the 5-rule cascade of
// spec.md §4.6: explicit workflow tag, inferred workflow tag, priority tag,
// keyword scan, default.
func SelectComplexity(task *taskfile.Task, defaultComplexity string) Complexity {
	// Rule 1: explicit workflow tag.
	switch {
	case task.HasTag(taskfile.TagWorkflowSimple):
		return ComplexityMinimal
	case task.HasTag(taskfile.TagWorkflowStandard):
		return ComplexityStandard
	case task.HasTag(taskfile.TagWorkflowSDLC), task.HasTag(taskfile.TagWorkflowFull):
		return ComplexityFull
	}

	// Rule 2: workflow tag inferred from other task tags: minimal, bug-fix/bugfix
	// and prototype select MINIMAL (simple, sdlc and full are taken by rule 1).
	switch {
	case task.HasTag(taskfile.TagWorkflowMinimal):
		return ComplexityMinimal
	case task.HasTag(taskfile.TagWorkflowBugFix), task.HasTag(taskfile.TagWorkflowBugFix2), task.HasTag(taskfile.TagWorkflowPrototype):
		return ComplexityMinimal
	}

	// Rule 3: priority tag.
	switch task.Priority() {
	case taskfile.TagPriorityP0:
		return ComplexityFull
	case taskfile.TagPriorityP3:
		return ComplexityMinimal
	}

	// Rule 4: keyword scan of the description.
	desc := strings.ToLower(task.Description)
	for _, kw := range fullKeywords {
		if strings.Contains(desc, kw) {
			return ComplexityFull
		}
	}
	for _, kw := range minimalKeywords {
		if strings.Contains(desc, kw) {
			return ComplexityMinimal
		}
	}

	// Rule 5: default.
	switch Complexity(strings.ToLower(defaultComplexity)) {
	case ComplexityMinimal:
		return ComplexityMinimal
	case ComplexityFull:
		return ComplexityFull
	default:
		return ComplexityStandard
	}
}

// Phase is one step of a workflow: a named prompt template and the model to
// invoke it with. Empty Model defers to the agent executor's default.
type Phase struct {
	Name   string
	Model  string
}

// Phases returns the ordered phase sequence for a complexity tier, per
// spec.md §4.6's three built-in tiers table.
func Phases(c Complexity) []Phase {
	switch c {
	case ComplexityMinimal:
		return []Phase{
			{Name: "implement", Model: "sonnet"},
		}
	case ComplexityFull:
		return []Phase{
			{Name: "plan", Model: "opus"},
			{Name: "implement", Model: "sonnet"},
			{Name: "test", Model: "sonnet"},
			{Name: "review", Model: "opus"},
			{Name: "document", Model: "sonnet"},
		}
	default: // ComplexityStandard
		return []Phase{
			{Name: "plan", Model: "sonnet"},
			{Name: "implement", Model: "sonnet"},
		}
	}
}
