package taskfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adw-dev/adw/pkg/filesystem"
	"github.com/adw-dev/adw/pkg/utils"
)

// Sentinel domain errors, per spec.md §4.1/§7 (taxonomy class "Domain").
var (
	// ErrTaskFileNotFound is returned when the configured tasks file does
	// not exist on disk.
	ErrTaskFileNotFound = errors.New("task file not found, run init")
	// ErrTaskNotFound is returned when a description/adw_id pair does not
	// match any line (a "stale task" update).
	ErrTaskNotFound = errors.New("task not found")
	// ErrAmbiguousMatch is returned when a description matches more than
	// one line and no adw_id was supplied to disambiguate.
	ErrAmbiguousMatch = errors.New("ambiguous task match: multiple lines share this description")
)

// Store is the canonical task-file store (C1). It is the single writer of
// status transitions in steady state; a process-local mutex serializes
// concurrent mutators within this daemon. Cross-process concurrency on the
// task file itself is not supported, matching spec.md §4.1.
type Store struct {
	path string
	fs   filesystem.FileSystemInterface
	mu   sync.Mutex
}

// New creates a Store backed by the standard OS filesystem.
func New(path string) *Store {
	return NewWithFS(path, filesystem.NewStandardFileSystem())
}

// NewWithFS creates a Store backed by an injected filesystem, for tests.
func NewWithFS(path string, fs filesystem.FileSystemInterface) *Store {
	return &Store{path: path, fs: fs}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) readLines() ([]string, error) {
	if !s.fs.Exists(s.path) {
		return nil, ErrTaskFileNotFound
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

// Load parses the task file into ordered worktree sections, preserving
// physical order. Malformed lines are skipped, never abort parsing.
func (s *Store) Load() ([]*WorktreeSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]*WorktreeSection, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}

	var sections []*WorktreeSection
	var current *WorktreeSection
	for i, line := range lines {
		if name, ok := parseWorktreeHeader(line); ok {
			current = &WorktreeSection{Name: name}
			sections = append(sections, current)
			continue
		}
		task, ok := parseTaskLine(line)
		if !ok {
			continue // blank line, comment, or malformed line: skip with (implicit) warning
		}
		task.LineNumber = i + 1
		if current == nil {
			// Tasks before any header belong to an implicit default worktree.
			current = &WorktreeSection{Name: "default"}
			sections = append(sections, current)
		}
		task.WorktreeName = current.Name
		current.Tasks = append(current.Tasks, task)
	}
	return sections, nil
}

// eligible reports whether task can be dispatched now, per spec.md §4.2: a
// task is eligible when pending, or blocked with every earlier task in the
// same worktree section done.
func eligible(tasksAbove []*Task, task *Task) bool {
	switch task.Status {
	case StatusPending:
		return true
	case StatusBlocked:
		for _, above := range tasksAbove {
			if above.Status != StatusDone {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// GetEligible returns the flat list of tasks eligible for dispatch across
// all worktrees, preserving per-worktree file order (spec.md §8 property 1).
func (s *Store) GetEligible() ([]*Task, error) {
	sections, err := s.Load()
	if err != nil {
		return nil, err
	}
	var out []*Task
	for _, section := range sections {
		for i, task := range section.Tasks {
			if eligible(section.Tasks[:i], task) {
				out = append(out, task)
			}
		}
	}
	return out, nil
}

// findTaskLine locates the unique line matching description (and adwID, when
// non-empty, for disambiguation). It returns the physical line index
// (0-based, into the full line slice) and the parsed task at that line.
func findTaskLine(lines []string, description, adwID string) (int, *Task, error) {
	var matchIdx = -1
	var match *Task
	var ambiguous []int

	for i, line := range lines {
		task, ok := parseTaskLine(line)
		if !ok || task.Description != description {
			continue
		}
		if adwID != "" {
			if task.AdwID == adwID {
				return i, task, nil
			}
			continue
		}
		ambiguous = append(ambiguous, i)
		if matchIdx == -1 {
			matchIdx = i
			match = task
		}
	}

	switch {
	case matchIdx == -1:
		return -1, nil, fmt.Errorf("%w: %q", ErrTaskNotFound, description)
	case len(ambiguous) > 1:
		// Per spec.md §4.1: "If multiple lines match description, the first
		// unmatched-by-adw_id line is chosen; ambiguity is an error returned
		// to the caller" when adw_id was not supplied to disambiguate.
		return -1, nil, fmt.Errorf("%w: %q", ErrAmbiguousMatch, description)
	default:
		return matchIdx, match, nil
	}
}

func (s *Store) rewriteLine(description, adwID string, mutate func(*Task)) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	idx, task, err := findTaskLine(lines, description, adwID)
	if err != nil {
		return nil, err
	}
	mutate(task)
	lines[idx] = task.Line()

	if err := s.writeAtomic(lines); err != nil {
		return nil, err
	}
	return task, nil
}

// MarkInProgress transitions a pending or blocked task to in_progress,
// assigning it adwID. adwID must already be generated by the caller (the
// agent supervisor), since the task-file store does not itself allocate IDs.
func (s *Store) MarkInProgress(description, adwID string) (*Task, error) {
	return s.rewriteLine(description, "", func(t *Task) {
		t.Status = StatusInProgress
		t.AdwID = adwID
		t.ErrorMessage = ""
	})
}

// MarkDone transitions a task to done, recording an optional commit hash.
func (s *Store) MarkDone(description, adwID, commitHash string) (*Task, error) {
	return s.rewriteLine(description, adwID, func(t *Task) {
		t.Status = StatusDone
		t.CommitHash = commitHash
		t.ErrorMessage = ""
	})
}

// MarkFailed transitions a task to failed, recording the (already truncated)
// error message.
func (s *Store) MarkFailed(description, adwID, errMsg string) (*Task, error) {
	return s.rewriteLine(description, adwID, func(t *Task) {
		t.Status = StatusFailed
		t.ErrorMessage = errMsg
	})
}

// FindByAdwID scans every worktree section for the task carrying adwID. Used
// by the `cancel`/`retry` CLI commands, which take an adw_id alone and need
// to recover the task's description to drive rewriteLine.
func (s *Store) FindByAdwID(adwID string) (*Task, error) {
	sections, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		for _, t := range section.Tasks {
			if t.AdwID == adwID {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: adw_id %q", ErrTaskNotFound, adwID)
}

// Reset transitions a failed task back to pending by human edit (the only
// allowed failed->pending transition per spec.md §3 invariants). It clears
// adw_id, commit hash, and error message so the task can be redispatched.
func (s *Store) Reset(description, adwID string) (*Task, error) {
	return s.rewriteLine(description, adwID, func(t *Task) {
		t.Status = StatusPending
		t.AdwID = ""
		t.CommitHash = ""
		t.ErrorMessage = ""
	})
}

// Add appends a new pending task to worktreeName, creating the worktree
// header if it does not already exist. It is the backing implementation of
// the `adw add` CLI command.
func (s *Store) Add(worktreeName, description string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines()
	if errors.Is(err, ErrTaskFileNotFound) {
		lines = nil
	} else if err != nil {
		return err
	}

	task := &Task{Status: StatusPending, Description: description, Tags: tags, WorktreeName: worktreeName}
	headerLine := worktreeHeaderPrefix + " " + worktreeName

	insertAt := -1
	for i, line := range lines {
		if name, ok := parseWorktreeHeader(line); ok && name == worktreeName {
			insertAt = nextSectionStart(lines, i)
			break
		}
	}

	if insertAt == -1 {
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
			lines = append(lines, "")
		}
		lines = append(lines, headerLine, task.Line())
	} else {
		lines = append(lines[:insertAt], append([]string{task.Line()}, lines[insertAt:]...)...)
	}

	return s.writeAtomic(lines)
}

// nextSectionStart returns the line index immediately after the last task
// line belonging to the worktree header found at headerIdx (i.e. where a
// newly appended task for that worktree should be inserted).
func nextSectionStart(lines []string, headerIdx int) int {
	i := headerIdx + 1
	for i < len(lines) {
		if _, ok := parseWorktreeHeader(lines[i]); ok {
			break
		}
		i++
	}
	return i
}

// writeAtomic serializes lines back to the task file via write-to-temp +
// rename, satisfying spec.md §8 property 4 (no reader observes a partially
// written line).
func (s *Store) writeAtomic(lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	dir := filepath.Dir(s.path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(s.path), utils.GenerateShortID()))

	if err := s.fs.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing temp task file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp task file into place: %w", err)
	}
	return nil
}
