package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	st := New("a1b2c3d4", "Ship the feature", "standard", "main", "/repo/.worktrees/main", "adw/main/a1b2c3d4", []string{"p1"})

	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.Exists("a1b2c3d4") {
		t.Fatalf("Exists() = false after Save()")
	}

	loaded, err := store.Load("a1b2c3d4")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.TaskDescription != st.TaskDescription || loaded.WorkflowType != st.WorkflowType {
		t.Fatalf("loaded state mismatch: %+v", loaded)
	}
}

func TestRecordPhase(t *testing.T) {
	st := New("a1b2c3d4", "Ship it", "minimal", "main", "/repo/.worktrees/main", "adw/main/a1b2c3d4", nil)
	st.RecordPhase(PhaseResult{Phase: "implement", Success: true, DurationSeconds: 12.5})
	st.RecordPhase(PhaseResult{Phase: "test", Success: false, Error: "2 tests failed"})

	if len(st.PhasesCompleted) != 2 {
		t.Fatalf("len(PhasesCompleted) = %d, want 2", len(st.PhasesCompleted))
	}
	if len(st.Errors) != 1 || st.Errors[0] != "test: 2 tests failed" {
		t.Fatalf("Errors = %v, want [\"test: 2 tests failed\"]", st.Errors)
	}
}

func TestListSkipsDirsWithoutState(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	st := New("a1b2c3d4", "desc", "minimal", "main", "/repo", "branch", nil)
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A directory with no adw_state.json (e.g. a stray phase dir) must not
	// be reported as a known adw_id.
	if err := os.MkdirAll(filepath.Join(dir, "not-a-task"), 0755); err != nil {
		t.Fatal(err)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "a1b2c3d4" {
		t.Fatalf("List() = %v, want [a1b2c3d4]", ids)
	}
}
