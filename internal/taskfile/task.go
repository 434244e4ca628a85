// Package taskfile implements the canonical task-file store: parsing,
// dependency/eligibility resolution, and atomic status mutation of the
// human-curated tasks.md file that drives the ADW engine.
package taskfile

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusPending means the task has never been dispatched.
	StatusPending Status = "pending"
	// StatusBlocked means the task waits on every earlier task in its
	// worktree to reach StatusDone.
	StatusBlocked Status = "blocked"
	// StatusInProgress means a live agent is (or was, before a crash)
	// working the task.
	StatusInProgress Status = "in_progress"
	// StatusDone means the task completed successfully.
	StatusDone Status = "done"
	// StatusFailed means the task's workflow exhausted its retries.
	StatusFailed Status = "failed"
)

// statusMarkers maps each status to its single-rune representation inside
// the task line's leading bracket. Pending is the empty string.
var statusMarkers = map[Status]string{
	StatusPending:    "",
	StatusBlocked:    "⏳",
	StatusInProgress: "🚦",
	StatusDone:       "✅",
	StatusFailed:     "❌",
}

var markerStatus = func() map[string]Status {
	m := make(map[string]Status, len(statusMarkers))
	for s, marker := range statusMarkers {
		m[marker] = s
	}
	return m
}()

// Recognized tag vocabulary, per spec.md §6. Unknown tags are preserved
// verbatim on rewrite but ignored by dispatch logic.
const (
	TagModelOpus   = "opus"
	TagModelSonnet = "sonnet"
	TagModelHaiku  = "haiku"

	TagWorkflowSimple   = "simple"
	TagWorkflowStandard = "standard"
	TagWorkflowSDLC     = "sdlc"
	TagWorkflowBugFix   = "bug-fix"
	TagWorkflowBugFix2  = "bugfix"
	TagWorkflowPrototype = "prototype"
	TagWorkflowFull     = "full"
	TagWorkflowMinimal  = "minimal"

	TagPriorityP0 = "p0"
	TagPriorityP1 = "p1"
	TagPriorityP2 = "p2"
	TagPriorityP3 = "p3"

	TagSkipReview1 = "skip-review"
	TagSkipReview2 = "skip_review"
	TagSkipReview3 = "no-review"
	TagSkipReview4 = "no_review"
)

// Task is one line of the task file.
type Task struct {
	Status       Status   // current lifecycle state
	Description  string   // free-form text, the prompt seed for the agent
	AdwID        string   // 8-char lowercase hex, assigned on pending->in_progress
	CommitHash   string   // optional short SHA recorded after done
	ErrorMessage string   // optional, populated when failed
	Tags         []string // closed + passthrough vocabulary, preserved verbatim
	WorktreeName string   // the worktree section this task belongs to
	LineNumber   int      // 1-based physical line, diagnostics only
}

// HasTag reports whether t carries the given tag (case-sensitive, matching
// the closed vocabulary's lowercase spelling).
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// Model returns the explicit model tag on the task, or "" if none is set.
func (t *Task) Model() string {
	for _, tg := range t.Tags {
		switch tg {
		case TagModelOpus, TagModelSonnet, TagModelHaiku:
			return tg
		}
	}
	return ""
}

// Priority returns the explicit priority tag on the task, or "" if none is set.
func (t *Task) Priority() string {
	for _, tg := range t.Tags {
		switch tg {
		case TagPriorityP0, TagPriorityP1, TagPriorityP2, TagPriorityP3:
			return tg
		}
	}
	return ""
}

// SkipReview reports whether any of the review-skip tag spellings is present.
func (t *Task) SkipReview() bool {
	return t.HasTag(TagSkipReview1) || t.HasTag(TagSkipReview2) ||
		t.HasTag(TagSkipReview3) || t.HasTag(TagSkipReview4)
}

// WorktreeSection groups the tasks that physically follow a
// "## Worktree: <name>" header, up to the next header or EOF.
type WorktreeSection struct {
	Name  string
	Tasks []*Task
}
