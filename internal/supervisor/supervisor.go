// Package supervisor implements the agent supervisor (C7): the in-memory
// table of live dispatched tasks (adw_id -> pid/start_time/workflow/log),
// backing spawn/poll/count/list/kill. Grounded on the teacher's generic
// pkg/repository.InMemoryRepository, applied here to the ADW engine's
// process-tracking domain instead of left unused.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adw-dev/adw/pkg/repository"
)

// TaskRecord is one live (or just-completed) dispatch entry.
type TaskRecord struct {
	AdwID       string
	PID         int
	StartTime   time.Time
	Workflow    string
	Description string
	LogPath     string
}

// Completion is one reaped task's outcome, per spec.md §4.7 "poll() ->
// [(adw_id, exit_code, stderr)]". ExitCode 0 means the workflow succeeded;
// Err carries the failure when it did not.
type Completion struct {
	AdwID    string
	ExitCode int
	Err      error
}

// Supervisor tracks in-flight task dispatches, per spec.md §4.7.
type Supervisor struct {
	mu          sync.Mutex
	repo        *repository.InMemoryRepository[TaskRecord, string]
	cancels     map[string]context.CancelFunc
	completions []Completion
}

// New creates an empty Supervisor.
func New() *Supervisor {
	repo := repository.NewInMemoryRepository[TaskRecord, string](
		func(t *TaskRecord) string { return t.AdwID },
		func() string { return "" }, // adw_ids are always assigned by the caller
		func(t *TaskRecord, id string) { t.AdwID = id },
	)
	return &Supervisor{repo: repo, cancels: make(map[string]context.CancelFunc)}
}

// Spawn records a newly dispatched task. cancel, if non-nil, is invoked by
// Kill to cooperatively stop the running workflow.
func (s *Supervisor) Spawn(adwID, workflow, description, logPath string, pid int, cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &TaskRecord{
		AdwID:       adwID,
		PID:         pid,
		StartTime:   time.Now(),
		Workflow:    workflow,
		Description: description,
		LogPath:     logPath,
	}
	if err := s.repo.Save(record); err != nil {
		return fmt.Errorf("recording dispatch for %s: %w", adwID, err)
	}
	if cancel != nil {
		s.cancels[adwID] = cancel
	}
	return nil
}

// Poll returns the live record for adwID, if any.
func (s *Supervisor) Poll(adwID string) (*TaskRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Find(adwID)
	if err != nil {
		return nil, false
	}
	return record, true
}

// Count returns the number of currently tracked (live) tasks.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _ := s.repo.FindAll()
	return len(all)
}

// List returns all currently tracked tasks.
func (s *Supervisor) List() []TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _ := s.repo.FindAll()
	return all
}

// Reap removes adwID from the live table once its workflow has completed,
// freeing a dispatch slot.
func (s *Supervisor) Reap(adwID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.repo.Delete(adwID)
	delete(s.cancels, adwID)
}

// Complete records that adwID's workflow goroutine has finished, queuing it
// for the next PollCompletions and freeing its dispatch slot. The workflow
// goroutine itself calls this exactly once, after its workflow run returns.
func (s *Supervisor) Complete(adwID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exitCode := 0
	if err != nil {
		exitCode = 1
	}
	s.completions = append(s.completions, Completion{AdwID: adwID, ExitCode: exitCode, Err: err})
	_ = s.repo.Delete(adwID)
	delete(s.cancels, adwID)
}

// PollCompletions non-blockingly drains and returns every completion queued
// since the last call, per spec.md §4.7's cron loop contract.
func (s *Supervisor) PollCompletions() []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.completions
	s.completions = nil
	return out
}

// Kill cooperatively cancels a live task's workflow context, if tracked.
func (s *Supervisor) Kill(adwID string) error {
	s.mu.Lock()
	cancel, ok := s.cancels[adwID]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("no live task tracked for adw_id %s", adwID)
	}
	cancel()
	return nil
}
