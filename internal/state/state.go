// Package state persists the per-task ADWState snapshot that lives at
// agents/<adw_id>/adw_state.json, grounded on the teacher's
// internal/claude/storage.go JSON persistence pattern.
package state

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/adw-dev/adw/pkg/filesystem"
	"github.com/adw-dev/adw/pkg/utils"
)

// PhaseResult records the outcome of one workflow phase, per spec.md §4.6.
type PhaseResult struct {
	Phase          string        `json:"phase"`
	Success        bool          `json:"success"`
	DurationSeconds float64      `json:"duration_seconds"`
	Error          string        `json:"error,omitempty"`
	CompletedAt    time.Time     `json:"completed_at"`
}

// ADWState is the live state snapshot for one adw_id, per spec.md §3.
type ADWState struct {
	AdwID           string        `json:"adw_id"`
	TaskDescription string        `json:"task_description"`
	TaskTags        []string      `json:"task_tags,omitempty"`
	WorkflowType    string        `json:"workflow_type"`
	CurrentPhase    string        `json:"current_phase"`
	PhasesCompleted []PhaseResult `json:"phases_completed"`
	WorktreeName    string        `json:"worktree_name"`
	WorktreePath    string        `json:"worktree_path"`
	BranchName      string        `json:"branch_name"`
	CommitHash      string        `json:"commit_hash,omitempty"`
	PlanFile        string        `json:"plan_file,omitempty"`
	Errors          []string      `json:"errors,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// New builds the initial state for a freshly dispatched task.
func New(adwID, description, workflowType, worktreeName, worktreePath, branchName string, tags []string) *ADWState {
	now := time.Now()
	return &ADWState{
		AdwID:           adwID,
		TaskDescription: description,
		TaskTags:        tags,
		WorkflowType:    workflowType,
		WorktreeName:    worktreeName,
		WorktreePath:    worktreePath,
		BranchName:      branchName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// RecordPhase appends a phase result and advances CurrentPhase bookkeeping.
func (s *ADWState) RecordPhase(result PhaseResult) {
	s.PhasesCompleted = append(s.PhasesCompleted, result)
	if !result.Success && result.Error != "" {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", result.Phase, result.Error))
	}
	s.UpdatedAt = time.Now()
}

// Store persists ADWState snapshots under a configured agents directory.
type Store struct {
	agentsDir string
	fs        filesystem.FileSystemInterface
	mu        sync.Mutex
}

// NewStore creates a state Store rooted at agentsDir, using the standard
// filesystem.
func NewStore(agentsDir string) *Store {
	return NewStoreWithFS(agentsDir, filesystem.NewStandardFileSystem())
}

// NewStoreWithFS creates a state Store with an injected filesystem, for tests.
func NewStoreWithFS(agentsDir string, fs filesystem.FileSystemInterface) *Store {
	return &Store{agentsDir: agentsDir, fs: fs}
}

// Dir returns the per-task directory agents/<adw_id>/.
func (s *Store) Dir(adwID string) string {
	return filepath.Join(s.agentsDir, adwID)
}

func (s *Store) path(adwID string) string {
	return filepath.Join(s.Dir(adwID), "adw_state.json")
}

// Save writes state atomically (write-temp + rename), creating
// agents/<adw_id>/ if absent.
func (s *Store) Save(st *ADWState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(st.AdwID)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling adw state: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".adw_state.json.tmp-%s", utils.GenerateShortID()))
	if err := s.fs.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path(st.AdwID)); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp state file into place: %w", err)
	}
	return nil
}

// Load reads back the state snapshot for adwID.
func (s *Store) Load(adwID string) (*ADWState, error) {
	data, err := s.fs.ReadFile(s.path(adwID))
	if err != nil {
		return nil, fmt.Errorf("reading adw state for %s: %w", adwID, err)
	}
	var st ADWState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshaling adw state for %s: %w", adwID, err)
	}
	return &st, nil
}

// Exists reports whether a state snapshot has ever been written for adwID.
func (s *Store) Exists(adwID string) bool {
	return s.fs.Exists(s.path(adwID))
}

// List returns the adw_ids with a persisted state snapshot under agentsDir.
func (s *Store) List() ([]string, error) {
	if !s.fs.Exists(s.agentsDir) {
		return nil, nil
	}
	entries, err := s.fs.ReadDir(s.agentsDir)
	if err != nil {
		return nil, fmt.Errorf("listing agents directory: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && s.Exists(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// WriteEscalation persists the terminal-failure report (C10) at
// agents/<adw_id>/escalation.md, beside the adw_state.json snapshot.
func (s *Store) WriteEscalation(adwID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(adwID)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(dir, "escalation.md"), []byte(content), 0644)
}

func (s *Store) cancelPath(adwID string) string {
	return filepath.Join(s.Dir(adwID), "cancel_requested")
}

// RequestCancel drops a marker file the running workflow polls between
// phases. A kill(adw_id) issued from a separate `adw cancel` invocation has
// no way to reach the daemon's in-process goroutine directly, so
// cancellation is cooperative: the marker is the only channel between the
// two processes, same as the task-file itself.
func (s *Store) RequestCancel(adwID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.Dir(adwID)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}
	return s.fs.WriteFile(s.cancelPath(adwID), []byte(time.Now().UTC().Format(time.RFC3339)), 0644)
}

// CancelRequested reports whether RequestCancel was ever called for adwID.
func (s *Store) CancelRequested(adwID string) bool {
	return s.fs.Exists(s.cancelPath(adwID))
}
